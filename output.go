package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"strconv"

	"github.com/atotto/clipboard"
)

// lsLine formats one -ls row in the style of `ls -dils`: inode, size in 1K
// blocks, mode, link count, owner, group, byte size, mtime, path (with the
// link target appended for symlinks).
func lsLine(path string, info fs.FileInfo) string {
	var ino, nlink uint64
	var blocks int64
	owner, group := "?", "?"
	if st, ok := sysStat(info); ok {
		ino = uint64(st.Ino)
		nlink = uint64(st.Nlink)
		blocks = st.Blocks
		owner = userName(st.Uid)
		group = groupName(st.Gid)
	}

	pathStr := path
	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			pathStr += " -> " + target
		} else {
			pathStr += " -> [broken]"
		}
	}

	return fmt.Sprintf("%6d %4d %s %3d %-8s %-8s %8d %s %s",
		ino, (blocks*512)/1024, modeString(info.Mode()), nlink,
		owner, group, info.Size(),
		info.ModTime().Format("Jan _2 15:04"), pathStr)
}

// modeString renders a mode the way ls does ('l' for symlinks, s/t for
// setuid/setgid/sticky), which differs from fs.FileMode.String.
func modeString(m fs.FileMode) string {
	buf := []byte("----------")
	switch {
	case m.IsDir():
		buf[0] = 'd'
	case m&fs.ModeSymlink != 0:
		buf[0] = 'l'
	case m&fs.ModeCharDevice != 0:
		buf[0] = 'c'
	case m&fs.ModeDevice != 0:
		buf[0] = 'b'
	case m&fs.ModeNamedPipe != 0:
		buf[0] = 'p'
	case m&fs.ModeSocket != 0:
		buf[0] = 's'
	}

	const rwx = "rwxrwxrwx"
	perm := m.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			buf[1+i] = rwx[i]
		}
	}
	if m&fs.ModeSetuid != 0 {
		if buf[3] == 'x' {
			buf[3] = 's'
		} else {
			buf[3] = 'S'
		}
	}
	if m&fs.ModeSetgid != 0 {
		if buf[6] == 'x' {
			buf[6] = 's'
		} else {
			buf[6] = 'S'
		}
	}
	if m&fs.ModeSticky != 0 {
		if buf[9] == 'x' {
			buf[9] = 't'
		} else {
			buf[9] = 'T'
		}
	}
	return string(buf)
}

func userName(uid uint32) string {
	if u, err := user.LookupId(strconv.Itoa(int(uid))); err == nil {
		return u.Username
	}
	return strconv.Itoa(int(uid))
}

func groupName(gid uint32) string {
	if g, err := user.LookupGroupId(strconv.Itoa(int(gid))); err == nil {
		return g.Name
	}
	return strconv.Itoa(int(gid))
}

// flushClipboard ships buffered print output to the system clipboard,
// falling back to stdout if the clipboard is unavailable.
func flushClipboard(f *Finder, buf *bytes.Buffer) {
	if err := clipboard.WriteAll(buf.String()); err != nil {
		fmt.Fprintf(f.errOut, "gofind: clipboard: %v\n", err)
		fmt.Print(buf.String())
		return
	}
	fmt.Fprintln(f.errOut, "gofind: results copied to clipboard")
}
