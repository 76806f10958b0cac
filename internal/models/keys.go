package models

// Sync accessors. The reconciler's merge planner works over any entity
// exposing its primary key, modified stamp and status tag.

func (g Group) SyncKey() string    { return g.Token }
func (g Group) SyncStamp() string  { return g.ModifiedAt }
func (g Group) SyncStatus() Status { return g.Status }

func (m Member) SyncKey() string    { return m.UUID }
func (m Member) SyncStamp() string  { return m.ModifiedAt }
func (m Member) SyncStatus() Status { return m.Status }

func (t Transaction) SyncKey() string    { return t.UUID }
func (t Transaction) SyncStamp() string  { return t.ModifiedAt }
func (t Transaction) SyncStatus() Status { return t.Status }
