package csaf

// NewProducts returns nil for an empty input so the field is omitted on encoding.
func NewProducts(ids []ProductID) Products {
	if len(ids) == 0 {
		return nil
	}
	products := make(Products, len(ids))
	copy(products, ids)
	return products
}

// IsEmpty reports whether no bucket of the status carries a product.
func (s *ProductStatus) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, bucket := range []Products{
		s.FirstAffected, s.FirstFixed, s.Fixed, s.KnownAffected,
		s.KnownNotAffected, s.LastAffected, s.Recommended, s.UnderInvestigation,
	} {
		if len(bucket) > 0 {
			return false
		}
	}
	return true
}

// Normalize folds empty product lists into absent ones, recursively over the
// product status, remediations, threats and flags of every vulnerability.
func (adv *Advisory) Normalize() {
	for _, vuln := range adv.Vulnerabilities {
		if vuln == nil {
			continue
		}
		if s := vuln.ProductStatus; s != nil {
			s.FirstAffected = NewProducts(s.FirstAffected)
			s.FirstFixed = NewProducts(s.FirstFixed)
			s.Fixed = NewProducts(s.Fixed)
			s.KnownAffected = NewProducts(s.KnownAffected)
			s.KnownNotAffected = NewProducts(s.KnownNotAffected)
			s.LastAffected = NewProducts(s.LastAffected)
			s.Recommended = NewProducts(s.Recommended)
			s.UnderInvestigation = NewProducts(s.UnderInvestigation)
			if s.IsEmpty() {
				vuln.ProductStatus = nil
			}
		}
		for _, r := range vuln.Remediations {
			r.ProductIDs = NewProducts(r.ProductIDs)
		}
		for _, t := range vuln.Threats {
			t.ProductIDs = NewProducts(t.ProductIDs)
		}
		for _, f := range vuln.Flags {
			f.ProductIDs = NewProducts(f.ProductIDs)
		}
	}
}
