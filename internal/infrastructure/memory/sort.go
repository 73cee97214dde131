package memory

import (
	"sort"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// Orden determinista para los listados: fecha de creación y, a igualdad, ID.

func sortByCreatedAtVendors(vs []*entity.Vendor) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].CreatedAt.Equal(vs[j].CreatedAt) {
			return vs[i].ID < vs[j].ID
		}
		return vs[i].CreatedAt.Before(vs[j].CreatedAt)
	})
}

func sortByCreatedAtPOs(pos []*entity.PurchaseOrder) {
	sort.Slice(pos, func(i, j int) bool {
		if pos[i].CreatedAt.Equal(pos[j].CreatedAt) {
			return pos[i].ID < pos[j].ID
		}
		return pos[i].CreatedAt.Before(pos[j].CreatedAt)
	})
}

func sortByCreatedAtInvoices(invs []*entity.Invoice) {
	sort.Slice(invs, func(i, j int) bool {
		if invs[i].CreatedAt.Equal(invs[j].CreatedAt) {
			return invs[i].ID < invs[j].ID
		}
		return invs[i].CreatedAt.Before(invs[j].CreatedAt)
	})
}

func sortByCreatedAtPayments(ps []*entity.Payment) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].CreatedAt.Before(ps[j].CreatedAt)
	})
}
