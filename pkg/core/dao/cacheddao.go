package dao

// Cached layers a fresh MemCachedStore-backed overlay (via the wrapped
// DAO's own GetWrapped) on top of another DAO, so a caller can make
// tentative changes — for the duration of a block or a single transaction
// — and either Persist them down into the parent or simply drop the
// wrapper to discard them.
type Cached struct {
	DAO
}

// NewCached wraps d in a new overlay.
func NewCached(d DAO) *Cached {
	return &Cached{DAO: d.GetWrapped()}
}

// GetWrapped returns a further overlay layered on top of cd's own
// wrapped DAO, preserving the Cached-ness of the result so a caller that
// nests NewCached calls keeps getting a Cached back rather than
// unwrapping to a bare Simple.
func (cd *Cached) GetWrapped() DAO {
	return &Cached{DAO: cd.DAO.GetWrapped()}
}
