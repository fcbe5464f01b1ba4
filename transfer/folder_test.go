package transfer

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func sendFolderFileItem(t *testing.T, conn net.Conn, path []string, content []byte) {
	t.Helper()
	assert.NilError(t, writeAll(conn, encodeFolderItem(folderItem{Type: itemTypeFile, Path: path})))

	action := make([]byte, 2)
	assert.NilError(t, readExact(conn, action))
	assert.Equal(t, getU16(action), folderActionSendFile)

	sizeHdr := make([]byte, 4)
	putU32(sizeHdr, uint32(len(content)))
	assert.NilError(t, writeAll(conn, sizeHdr))

	info := encodeInfoFork(infoFork{Type: "TEXT", Creator: "ttxt", Name: path[len(path)-1]})
	assert.NilError(t, writeAll(conn, encodeFilpEnvelope(2)))
	assert.NilError(t, writeAll(conn, encodeForkHeader(forkHeader{Type: forkTypeInfo, DataSize: uint32(len(info))})))
	assert.NilError(t, writeAll(conn, info))
	assert.NilError(t, writeAll(conn, encodeForkHeader(forkHeader{Type: forkTypeData, DataSize: uint32(len(content))})))
	assert.NilError(t, writeAll(conn, content))
}

func sendFolderDirItem(t *testing.T, conn net.Conn, path []string) {
	t.Helper()
	assert.NilError(t, writeAll(conn, encodeFolderItem(folderItem{Type: itemTypeFolder, Path: path})))

	action := make([]byte, 2)
	assert.NilError(t, readExact(conn, action))
	assert.Equal(t, getU16(action), folderActionNextFile)
}

// TestFolderDownloadItemOrder is the literal "folder download item
// order" scenario: a folder "a/" containing "a/1.txt" (10 bytes) and a
// sibling "b.txt" (5 bytes), itemCount=3. The items must land on disk
// at the right paths with the right contents, and every ItemProgress
// that reaches the subscriber must carry Total 3 and a file item's name.
func TestFolderDownloadItemOrder(t *testing.T) {
	ln, host, port := listenForTransfer(t)
	defer ln.Close()

	file1 := make([]byte, 10)
	for i := range file1 {
		file1[i] = 'x'
	}
	file2 := make([]byte, 5)
	for i := range file2 {
		file2[i] = 'y'
	}

	go func() {
		conn := acceptHandshake(t, ln)
		defer conn.Close()

		sendFolderDirItem(t, conn, []string{"a"})
		sendFolderFileItem(t, conn, []string{"a", "1.txt"}, file1)
		sendFolderFileItem(t, conn, []string{"b.txt"}, file2)
	}()

	destDir := t.TempDir()
	tr, err := NewFolderDownload(host, port, Ticket{RefNum: 1, ItemCount: 3, Size: 15}, destDir)
	assert.NilError(t, err)

	var items []ItemProgress
	var sawCompleted bool
	for p := range tr.Progress() {
		switch v := p.(type) {
		case ItemProgress:
			items = append(items, v)
		case Completed:
			sawCompleted = true
		case Error:
			t.Fatalf("unexpected error progress: %+v", v)
		}
	}
	assert.NilError(t, tr.Wait())
	assert.Assert(t, sawCompleted)

	for _, it := range items {
		assert.Equal(t, it.Total, 3)
		assert.Assert(t, it.Name == "1.txt" || it.Name == "b.txt")
	}

	got1, err := os.ReadFile(filepath.Join(destDir, "a", "1.txt"))
	assert.NilError(t, err)
	assert.Equal(t, string(got1), string(file1))

	got2, err := os.ReadFile(filepath.Join(destDir, "b.txt"))
	assert.NilError(t, err)
	assert.Equal(t, string(got2), string(file2))

	info, err := os.Stat(filepath.Join(destDir, "a"))
	assert.NilError(t, err)
	assert.Assert(t, info.IsDir())
}
