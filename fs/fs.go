// Package fs holds the file-system helpers for key material: folders and
// files holding exported group descriptors are created with owner-only
// permissions.
package fs

import (
	"fmt"
	"os"
	"os/user"
)

const secureDirPerm = 0o700

// HomeFolder returns the home folder of the current user.
func HomeFolder() string {
	u, err := user.Current()
	if err != nil {
		panic(err)
	}
	return u.HomeDir
}

// CreateSecureFolder ensures folder exists with owner-only permissions.
// An existing folder with looser permissions is an error, not something
// to silently fix: the operator should know their key directory leaked.
func CreateSecureFolder(folder string) error {
	info, err := os.Stat(folder)
	if os.IsNotExist(err) {
		return os.MkdirAll(folder, secureDirPerm)
	}
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm != secureDirPerm {
		return fmt.Errorf("fs: %q has permissions %#o, want %#o", folder, perm, secureDirPerm)
	}
	return nil
}

// CreateSecureFile creates (or truncates) a file readable and writable by
// the owner only and returns the open handle.
func CreateSecureFile(file string) (*os.File, error) {
	return os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
}

// Exists reports whether the given path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return true, err
}
