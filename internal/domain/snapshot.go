package domain

// Snapshot is the complete persisted state of accounts and tasks at one
// point in time. The store boundary only reads and writes whole snapshots;
// callers mutate an in-memory copy and write it back.
type Snapshot struct {
	Accounts []Account `json:"apiAccounts"`
	Tasks    []Task    `json:"tasks"`
}

// NewSnapshot returns an empty snapshot with both collections initialized,
// the shape persisted on first run.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Accounts: []Account{},
		Tasks:    []Task{},
	}
}

// AccountByID returns a pointer into the snapshot's account slice, or nil
// if the id is absent. The pointer stays valid until the slice is resized.
func (s *Snapshot) AccountByID(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// TaskByID returns a pointer into the snapshot's task slice, or nil if the
// id is absent.
func (s *Snapshot) TaskByID(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// ClearDefaults drops the default flag on every account. Called before
// setting a new default so at most one account carries the flag at rest.
func (s *Snapshot) ClearDefaults() {
	for i := range s.Accounts {
		s.Accounts[i].IsDefault = false
	}
}

// DefaultAccount returns the account flagged as default or, absent one,
// the first registered account. This soft-fallback is intentional: a
// registry with accounts but no flagged default still serves requests
// rather than rejecting them. Returns nil only when no accounts exist.
func (s *Snapshot) DefaultAccount() *Account {
	for i := range s.Accounts {
		if s.Accounts[i].IsDefault {
			return &s.Accounts[i]
		}
	}
	if len(s.Accounts) > 0 {
		return &s.Accounts[0]
	}
	return nil
}
