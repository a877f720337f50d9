package accounts

import (
	"fmt"
	"os"

	"github.com/cleared-dev/sienote/internal/model"
)

// Service answers lookups over one run's classified accounts.
type Service struct {
	accounts   []model.Account
	byNumber   map[int]int
	byCategory map[model.Category][]int
}

// NewService indexes accounts by number and, for used accounts, by category.
func NewService(accounts []model.Account) *Service {
	s := &Service{
		accounts:   accounts,
		byNumber:   make(map[int]int, len(accounts)),
		byCategory: make(map[model.Category][]int),
	}
	for i, a := range accounts {
		s.byNumber[a.Number] = i
		if a.Used {
			s.byCategory[a.Category] = append(s.byCategory[a.Category], i)
		}
	}
	return s
}

// Get returns an account by number.
func (s *Service) Get(number int) (model.Account, bool) {
	i, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// ByCategory returns the used accounts of c in account order.
func (s *Service) ByCategory(c model.Category) []model.Account {
	idx := s.byCategory[c]
	out := make([]model.Account, len(idx))
	for j, i := range idx {
		out[j] = s.accounts[i]
	}
	return out
}

// Categories returns the categories that hold at least one used account, in
// report order. Unclassified comes last.
func (s *Service) Categories() []model.Category {
	var out []model.Category
	for _, c := range model.Categories() {
		if len(s.byCategory[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Save writes the account table to path.
func (s *Service) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating account table: %w", err)
	}
	if err := WriteAccounts(f, s.accounts); err != nil {
		f.Close()
		return fmt.Errorf("writing account table: %w", err)
	}
	return f.Close()
}
