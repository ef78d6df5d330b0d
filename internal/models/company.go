package models

import (
	"sort"
	"time"
)

// Company is one row of the reference set of canonical company keys.
type Company struct {
	Name          string    `gorm:"column:name;type:varchar(255);primaryKey"`
	AccountNumber string    `gorm:"column:account_number;type:varchar(100)"`
	Email         string    `gorm:"column:email;type:varchar(255)"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanySet is an immutable snapshot of the reference set, loaded once at
// startup and passed into the resolver. Keys iterate in lexicographic order
// so fuzzy-match ties break the same way on every run.
type CompanySet struct {
	keys []string
	set  map[string]struct{}
}

func NewCompanySet(names []string) *CompanySet {
	set := make(map[string]struct{}, len(names))
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, exists := set[name]; exists {
			continue
		}
		set[name] = struct{}{}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return &CompanySet{keys: keys, set: set}
}

func (c *CompanySet) Contains(key string) bool {
	_, ok := c.set[key]
	return ok
}

// Keys returns the reference keys in lexicographic order. Callers must not
// mutate the returned slice.
func (c *CompanySet) Keys() []string {
	return c.keys
}

func (c *CompanySet) Len() int {
	return len(c.keys)
}
