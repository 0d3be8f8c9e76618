package vex

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
	"github.com/samber/lo"

	"github.com/aquasecurity/rustsec-vex/pkg/csaf"
	"github.com/aquasecurity/rustsec-vex/pkg/types"
)

// Product is a classified version carrying its document-wide identifier.
type Product struct {
	ClassifiedVersion

	ID   csaf.ProductID
	Name string
	PURL string
}

// ProductSet holds the identified products of one conversion, split by status.
type ProductSet struct {
	Patched    []Product
	Unaffected []Product
	Vulnerable []Product
}

// assign identifies cv with the current counter value and returns the next one.
func assign(pkg string, cv ClassifiedVersion, counter int) (Product, int) {
	return Product{
		ClassifiedVersion: cv,
		ID:                csaf.ProductID(fmt.Sprintf("%s-%d", strings.ToUpper(pkg), counter)),
		Name:              fmt.Sprintf("%s %s", pkg, cv.Version),
		PURL:              packageurl.NewPackageURL(packageurl.TypeCargo, "", pkg, cv.Version, nil, "").ToString(),
	}, counter + 1
}

// Partition identifies the classified versions in order, threading a single
// counter from 1 so identifiers never repeat across statuses.
func Partition(pkg string, classified []ClassifiedVersion) ProductSet {
	var set ProductSet
	counter := 1
	for _, cv := range classified {
		var p Product
		p, counter = assign(pkg, cv, counter)
		switch cv.Status {
		case types.StatusPatched:
			set.Patched = append(set.Patched, p)
		case types.StatusUnaffected:
			set.Unaffected = append(set.Unaffected, p)
		case types.StatusVulnerable:
			set.Vulnerable = append(set.Vulnerable, p)
		}
	}
	return set
}

// All returns patched, unaffected and vulnerable products in that order.
func (s ProductSet) All() []Product {
	return lo.Flatten([][]Product{s.Patched, s.Unaffected, s.Vulnerable})
}

func (s ProductSet) PatchedIDs() csaf.Products {
	return productIDs(s.Patched)
}

func (s ProductSet) UnaffectedIDs() csaf.Products {
	return productIDs(s.Unaffected)
}

func (s ProductSet) VulnerableIDs() csaf.Products {
	return productIDs(s.Vulnerable)
}

func productIDs(products []Product) csaf.Products {
	return csaf.NewProducts(lo.Map(products, func(p Product, _ int) csaf.ProductID {
		return p.ID
	}))
}

// BuildProductTree nests one product_version leaf per product under a single
// product_name branch for the package.
func BuildProductTree(pkg string, set ProductSet) *csaf.ProductTree {
	var leaves []*csaf.Branch
	for _, p := range set.All() {
		leaves = append(leaves, &csaf.Branch{
			Category: csaf.BranchCategoryProductVersion,
			Name:     p.Version,
			Product: &csaf.FullProductName{
				Name:      p.Name,
				ProductID: p.ID,
				ProductIdentificationHelper: &csaf.ProductIdentificationHelper{
					PURL: p.PURL,
				},
			},
		})
	}
	return &csaf.ProductTree{
		Branches: []*csaf.Branch{
			{
				Category: csaf.BranchCategoryProductName,
				Name:     pkg,
				Branches: leaves,
			},
		},
	}
}
