package dao

import (
	"errors"

	"github.com/neocorex/neogo/pkg/core/storage"
)

// versionMagic marks the start of the current on-disk Version encoding, so
// GetVersion can tell it apart from the plain-string format older
// databases used (no prefix byte, just a semantic version like "0.1.2").
const versionMagic = 0x01

// Version is the node/database version stored under storage.SYSVersion. A
// mismatch between Value and the running binary's expected value means the
// database needs a migration the running binary doesn't implement.
type Version struct {
	// Prefix distinguishes database layouts sharing the same Value, e.g.
	// across an MPT-enabled and MPT-disabled build of the same release.
	Prefix byte
	Value  string
}

// errNoVersion is returned when no version record exists yet, i.e. the
// database was never initialized.
var errNoVersion = errors.New("no version stored")

// GetVersion reads the stored Version, tolerating the legacy plain-string
// format (no Prefix, no magic byte) older databases used.
func (dao *Simple) GetVersion() (Version, error) {
	data, err := dao.Store.Get(storage.SYSVersion.Bytes())
	if err != nil {
		return Version{}, err
	}
	return versionFromBytes(data)
}

func versionFromBytes(data []byte) (Version, error) {
	if len(data) == 0 {
		return Version{}, errNoVersion
	}
	if data[0] == versionMagic && len(data) >= 2 {
		return Version{Prefix: data[1], Value: string(data[2:])}, nil
	}
	return Version{Value: string(data)}, nil
}

// PutVersion stores v in the current encoding.
func (dao *Simple) PutVersion(v Version) error {
	data := make([]byte, 0, 2+len(v.Value))
	data = append(data, versionMagic, v.Prefix)
	data = append(data, []byte(v.Value)...)
	return dao.Store.Put(storage.SYSVersion.Bytes(), data)
}
