package opportunity

import "errors"

var ErrInvalidCategory = errors.New("invalid opportunity category")

// Category is the closed set of opportunity classifications.
type Category string

const (
	CategoryExperience  Category = "experience"
	CategoryConvenience Category = "convenience"
	CategoryDiscovery   Category = "discovery"
	CategoryService     Category = "service"
	CategoryBundle      Category = "bundle"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryExperience, CategoryConvenience, CategoryDiscovery, CategoryService, CategoryBundle:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

func (c Category) String() string {
	return string(c)
}
