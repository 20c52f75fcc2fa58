package modp

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kexd/kexd/fs"
)

// GroupTOML is the on-disk representation of a group descriptor. It
// exists so operators can audit the compiled-in constants against the
// published RFC values, and pin the expected parameters next to a peer
// configuration.
type GroupTOML struct {
	ID        uint16
	Bits      int
	Generator uint
	Prime     string // hex, big-endian
}

// TOML returns the encodable form of the group.
func (g *Group) TOML() *GroupTOML {
	return &GroupTOML{
		ID:        uint16(g.id),
		Bits:      g.bits,
		Generator: g.Generator(),
		Prime:     strings.ToUpper(g.prime.Text(16)),
	}
}

// Verify checks the file content against the compiled-in table. Any
// mismatch is a configuration error: either the file was tampered with
// or it was produced by an incompatible build.
func (gt *GroupTOML) Verify() error {
	g, err := GroupFromID(GroupID(gt.ID))
	if err != nil {
		return err
	}
	if gt.Bits != g.bits {
		return fmt.Errorf("modp: group %d: file says %d bits, build has %d", gt.ID, gt.Bits, g.bits)
	}
	if gt.Generator != g.Generator() {
		return fmt.Errorf("modp: group %d: file says generator %d, build has %d", gt.ID, gt.Generator, g.Generator())
	}
	p, ok := new(big.Int).SetString(gt.Prime, 16)
	if !ok || p.Cmp(g.prime) != 0 {
		return fmt.Errorf("modp: group %d: modulus does not match the build", gt.ID)
	}
	return nil
}

// SaveGroup writes the group descriptor to path with owner-only
// permissions.
func SaveGroup(path string, g *Group) error {
	fd, err := fs.CreateSecureFile(path)
	if err != nil {
		return fmt.Errorf("modp: creating %q: %w", path, err)
	}
	defer fd.Close()
	return toml.NewEncoder(fd).Encode(g.TOML())
}

// LoadGroup reads a group descriptor file. The content is not verified;
// call Verify on the result.
func LoadGroup(path string) (*GroupTOML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modp: reading %q: %w", path, err)
	}
	gt := new(GroupTOML)
	if err := toml.Unmarshal(data, gt); err != nil {
		return nil, fmt.Errorf("modp: parsing %q: %w", path, err)
	}
	return gt, nil
}
