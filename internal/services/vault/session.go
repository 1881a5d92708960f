package vault

import (
	"zebra/internal/domain"
	"zebra/internal/keychain"
)

// session is either locked or unlocked. Key material is only reachable
// through unlocked.
type session interface {
	isSession()
}

type locked struct{}

type unlocked struct {
	keys *keychain.KeyChain
	data domain.DataSet
}

func (locked) isSession()    {}
func (*unlocked) isSession() {}

func (u *unlocked) wipe() {
	u.keys.Wipe()
	u.data = nil
}
