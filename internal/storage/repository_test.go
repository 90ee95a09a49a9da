package storage

import (
	"context"
	"path/filepath"
	"testing"

	"quillie/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	// Migrations open a second connection, so an on-disk database is
	// required; :memory: would give each connection its own DB.
	repo, err := Open(filepath.Join(s.T().TempDir(), "quillie.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) registerUser(telegramID int64) core.User {
	u, err := s.repo.UpsertUser(s.ctx, telegramID, "budi", "Budi", "Santoso")
	require.NoError(s.T(), err)
	return u
}

func (s *RepositoryTestSuite) TestUpsertUserCreatesAndRefreshes() {
	u := s.registerUser(42)
	assert.True(s.T(), u.IsActive)
	assert.True(s.T(), u.WeeklyReportEnabled)
	assert.Nil(s.T(), u.MonthlyBudget)

	// Opting out then re-registering reactivates the subscription.
	require.NoError(s.T(), s.repo.SetWeeklyOptIn(s.ctx, u.ID, false))
	again, err := s.repo.UpsertUser(s.ctx, 42, "budi2", "Budi", "S.")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, again.ID)
	assert.Equal(s.T(), "budi2", again.Username)
	assert.True(s.T(), again.WeeklyReportEnabled)
}

func (s *RepositoryTestSuite) TestFindUserNotFound() {
	_, err := s.repo.FindUserByTelegramID(s.ctx, 999)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestSetMonthlyBudget() {
	u := s.registerUser(42)
	require.NoError(s.T(), s.repo.SetMonthlyBudget(s.ctx, u.ID, &core.Money{Cents: 500000000}))

	got, err := s.repo.FindUserByTelegramID(s.ctx, 42)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.MonthlyBudget)
	assert.EqualValues(s.T(), 500000000, got.MonthlyBudget.Cents)

	require.NoError(s.T(), s.repo.SetMonthlyBudget(s.ctx, u.ID, nil))
	got, err = s.repo.FindUserByTelegramID(s.ctx, 42)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.MonthlyBudget)

	assert.ErrorIs(s.T(), s.repo.SetMonthlyBudget(s.ctx, 12345, nil), ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateAndListExpenses() {
	u := s.registerUser(42)

	for _, day := range []int{10, 15, 20} {
		_, err := s.repo.CreateExpense(s.ctx, core.Expense{
			UserID:   u.ID,
			Amount:   core.Money{Cents: 5000000},
			Category: "Makan",
			Date:     core.NewDate(2024, 7, day),
		})
		require.NoError(s.T(), err)
	}

	got, err := s.repo.ListExpensesInRange(s.ctx, u.ID,
		core.NewDate(2024, 7, 12), core.NewDate(2024, 7, 20))
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), core.NewDate(2024, 7, 15), got[0].Date)
	assert.Equal(s.T(), core.NewDate(2024, 7, 20), got[1].Date)
}

func (s *RepositoryTestSuite) TestCreateExpenseRejectsInvalid() {
	u := s.registerUser(42)
	_, err := s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   u.ID,
		Amount:   core.Money{Cents: 0},
		Category: "Makan",
		Date:     core.NewDate(2024, 7, 1),
	})
	assert.ErrorIs(s.T(), err, core.ErrInvalidAmount)
}

func (s *RepositoryTestSuite) TestDefaultCategorySeed() {
	u := s.registerUser(42)
	names, err := s.repo.ListCategories(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.ElementsMatch(s.T(), []string{
		"Makan", "Transportasi", "Belanja", "Kesehatan",
		"Hiburan", "Pendidikan", "Lainnya",
	}, names)
}

func (s *RepositoryTestSuite) TestCategoriesAreScopedPerUser() {
	a := s.registerUser(1)
	b := s.registerUser(2)

	require.NoError(s.T(), s.repo.CreateCategory(s.ctx, a.ID, "Kopi"))
	// Duplicate create is a no-op.
	require.NoError(s.T(), s.repo.CreateCategory(s.ctx, a.ID, "Kopi"))

	aCats, err := s.repo.ListCategories(s.ctx, a.ID)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), aCats, "Kopi")

	bCats, err := s.repo.ListCategories(s.ctx, b.ID)
	require.NoError(s.T(), err)
	assert.NotContains(s.T(), bCats, "Kopi")
}

func (s *RepositoryTestSuite) TestCreateExpenseAndCategoryIsAtomic() {
	u := s.registerUser(42)

	e, err := s.repo.CreateExpenseAndCategory(s.ctx, core.Expense{
		UserID:   u.ID,
		Amount:   core.Money{Cents: 1200000},
		Category: "Kopi",
		Date:     core.NewDate(2024, 7, 17),
	}, "Kopi")
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), e.ID)

	cats, err := s.repo.ListCategories(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), cats, "Kopi")

	// A rejected expense must not leave the category behind.
	_, err = s.repo.CreateExpenseAndCategory(s.ctx, core.Expense{
		UserID:   u.ID,
		Amount:   core.Money{Cents: 0},
		Category: "Teh",
		Date:     core.NewDate(2024, 7, 17),
	}, "Teh")
	require.Error(s.T(), err)

	cats, err = s.repo.ListCategories(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.NotContains(s.T(), cats, "Teh")
}

func (s *RepositoryTestSuite) TestListWeeklyReportUsers() {
	a := s.registerUser(1)
	b := s.registerUser(2)
	c := s.registerUser(3)

	require.NoError(s.T(), s.repo.SetWeeklyOptIn(s.ctx, b.ID, false))
	require.NoError(s.T(), s.repo.SetActive(s.ctx, c.ID, false))

	users, err := s.repo.ListWeeklyReportUsers(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), users, 1)
	assert.Equal(s.T(), a.ID, users[0].ID)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
