package main

import (
	"io/fs"
	"syscall"
	"time"
)

// sysStat exposes the raw inode-level fields (inode number, link count,
// uid/gid, block count, access/change times) behind a FileInfo.
func sysStat(info fs.FileInfo) (*syscall.Stat_t, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	return st, ok
}

func atime(info fs.FileInfo) time.Time {
	if st, ok := sysStat(info); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return info.ModTime()
}

func ctime(info fs.FileInfo) time.Time {
	if st, ok := sysStat(info); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}

func mtime(info fs.FileInfo) time.Time {
	return info.ModTime()
}

// unixMode flattens a fs.FileMode's permission and setuid/setgid/sticky
// bits into the traditional octal layout -perm compares against.
func unixMode(m fs.FileMode) uint32 {
	perm := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		perm |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		perm |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		perm |= 0o1000
	}
	return perm
}
