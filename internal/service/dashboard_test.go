package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/fx"
	"github.com/finsight/networth-go/internal/infra/cache"
	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockStore struct {
	accounts  []domain.Account
	entries   map[string][]domain.MonthlyEntry
	scenarios []domain.ProjectionScenario
	err       error

	upserted  []domain.Month
	reordered []string
}

func (m *mockStore) ListAccounts(_ context.Context, includeClosed bool) ([]domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	if includeClosed {
		return m.accounts, nil
	}
	open := make([]domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		if !a.IsClosed {
			open = append(open, a)
		}
	}
	return open, nil
}

func (m *mockStore) GetAccount(_ context.Context, accountID string) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.accounts {
		if m.accounts[i].ID == accountID {
			return &m.accounts[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
}

func (m *mockStore) CreateAccount(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.accounts = append(m.accounts, *acct)
	return acct, nil
}

func (m *mockStore) UpdateAccount(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	return acct, m.err
}

func (m *mockStore) CloseAccount(_ context.Context, accountID string) error {
	return m.err
}

func (m *mockStore) ReorderAccounts(_ context.Context, orderedIDs []string) error {
	m.reordered = orderedIDs
	return m.err
}

func (m *mockStore) GetMonthlyEntries(_ context.Context, accountID string) ([]domain.MonthlyEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[accountID], nil
}

func (m *mockStore) UpsertMonthlyEntry(_ context.Context, accountID string, month domain.Month, fields domain.EntryFields, createOnly bool) (*domain.MonthlyEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.upserted = append(m.upserted, month)
	e := domain.MonthlyEntry{
		AccountID:     accountID,
		Month:         month,
		EndingBalance: fields.EndingBalance,
		CashIn:        fields.CashIn,
		CashOut:       fields.CashOut,
	}
	m.entries[accountID] = append(m.entries[accountID], e)
	return &e, nil
}

func (m *mockStore) ListProjectionScenarios(_ context.Context) ([]domain.ProjectionScenario, error) {
	return m.scenarios, m.err
}

func (m *mockStore) CreateProjectionScenario(_ context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	return sc, m.err
}

func (m *mockStore) UpdateProjectionScenario(_ context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	return sc, m.err
}

func (m *mockStore) DeleteProjectionScenario(_ context.Context, scenarioID string) error {
	return m.err
}

type stubRates struct {
	rates map[domain.Currency]float64
}

func (s *stubRates) GetRate(_ context.Context, _ domain.Month, currency domain.Currency) (float64, bool, error) {
	rate, ok := s.rates[currency]
	return rate, ok, nil
}

func newTestConverter(rates map[domain.Currency]float64) *fx.Converter {
	return fx.NewConverter(&stubRates{rates: rates}, cache.New[float64](time.Minute), observability.NewMetrics(), zap.NewNop())
}

func newDashboard(store *mockStore, rates map[domain.Currency]float64) *service.DashboardService {
	return service.NewDashboardService(store, newTestConverter(rates), 4, observability.NewMetrics(), zap.NewNop())
}

func monthlyEntry(accountID, month string, balance, cashIn, cashOut float64) domain.MonthlyEntry {
	return domain.MonthlyEntry{
		AccountID:     accountID,
		Month:         domain.MustMonth(month),
		EndingBalance: balance,
		CashIn:        cashIn,
		CashOut:       cashOut,
	}
}

// --- Tests ---

func TestCreateAccount_DefaultsCategory(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{}}
	svc := newDashboard(store, nil)

	created, err := svc.CreateAccount(context.Background(), &domain.Account{
		Name:     "Vanguard ISA",
		Type:     domain.TypeInvestment,
		Currency: domain.GBP,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Category != domain.CategoryInvestments {
		t.Errorf("expected category to default to Investments, got %s", created.Category)
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{}}
	svc := newDashboard(store, nil)

	cases := []struct {
		name string
		acct domain.Account
	}{
		{"missing name", domain.Account{Type: domain.TypeCurrent, Currency: domain.GBP}},
		{"unknown type", domain.Account{Name: "x", Type: "Bonds", Currency: domain.GBP}},
		{"unsupported currency", domain.Account{Name: "x", Type: domain.TypeCurrent, Currency: "JPY"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAccount(context.Background(), &tc.acct)
			var verr *domain.ErrValidation
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetEntries_DerivesSorted(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{
		"a1": {
			monthlyEntry("a1", "2024-02", 1300, 2000, 1900),
			monthlyEntry("a1", "2024-01", 1000, 2000, 1800),
		},
	}}
	svc := newDashboard(store, nil)

	derived, err := svc.GetEntries(context.Background(), "a1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(derived) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(derived))
	}
	if derived[0].Month != domain.MustMonth("2024-01") {
		t.Errorf("expected ascending order, first month %s", derived[0].Month)
	}
	if derived[1].CashFlow != 100 || derived[1].AccountGrowth != 200 {
		t.Errorf("feb derivation wrong: %+v", derived[1])
	}
}

func TestUpsertEntry_RejectsFutureMonth(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{}}
	svc := newDashboard(store, nil)

	future := domain.ThisMonth().Add(2)
	_, err := svc.UpsertEntry(context.Background(), "a1", future, domain.EntryFields{EndingBalance: 100}, false)

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for future month, got %v", err)
	}
	if len(store.upserted) != 0 {
		t.Error("future month must not reach the store")
	}
}

func TestUpsertEntry_ReturnsRederivedHistory(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{
		"a1": {monthlyEntry("a1", "2024-01", 1000, 2000, 1800)},
	}}
	svc := newDashboard(store, nil)

	derived, err := svc.UpsertEntry(context.Background(), "a1", domain.MustMonth("2024-02"),
		domain.EntryFields{EndingBalance: 1300, CashIn: 2000, CashOut: 1900}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(derived) != 2 {
		t.Fatalf("expected full rederived history, got %d entries", len(derived))
	}
	if derived[1].AccountGrowth != 200 {
		t.Errorf("expected rederived growth 200, got %f", derived[1].AccountGrowth)
	}
}

func TestGetValueChange_UnknownPeriod(t *testing.T) {
	store := &mockStore{entries: map[string][]domain.MonthlyEntry{}}
	svc := newDashboard(store, nil)

	_, err := svc.GetValueChange(context.Background(), "a1", "2W")
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetChartData_FanOutAndDefaults(t *testing.T) {
	store := &mockStore{
		accounts: []domain.Account{
			{ID: "a1", Name: "Main", Type: domain.TypeCurrent, Category: domain.CategoryCash, Currency: domain.GBP},
			{ID: "a2", Name: "Shares", Type: domain.TypeStock, Category: domain.CategoryInvestments, Currency: domain.GBP},
		},
		entries: map[string][]domain.MonthlyEntry{
			"a1": {monthlyEntry("a1", "2024-01", 1000, 0, 0)},
			"a2": {monthlyEntry("a2", "2024-01", 2000, 0, 0)},
		},
	}
	svc := newDashboard(store, nil)

	// Period and currency omitted: default to ALL and the base currency.
	data, err := svc.GetChartData(context.Background(), domain.ChartQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data.Currency != domain.BaseCurrency {
		t.Errorf("expected base currency default, got %s", data.Currency)
	}
	if len(data.NetWorth) != 1 || data.NetWorth[0].Value != 3000 {
		t.Errorf("expected net worth 3000, got %+v", data.NetWorth)
	}
	if len(data.Accounts) != 2 {
		t.Errorf("expected 2 account series, got %d", len(data.Accounts))
	}
}

func TestGetChartData_StoreErrorPropagates(t *testing.T) {
	store := &mockStore{err: errors.New("connection refused")}
	svc := newDashboard(store, nil)

	_, err := svc.GetChartData(context.Background(), domain.ChartQuery{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetChartData_ConvertsCurrencies(t *testing.T) {
	store := &mockStore{
		accounts: []domain.Account{
			{ID: "a1", Name: "US Broker", Type: domain.TypeStock, Category: domain.CategoryInvestments, Currency: domain.USD},
		},
		entries: map[string][]domain.MonthlyEntry{
			"a1": {monthlyEntry("a1", "2024-01", 125, 0, 0)},
		},
	}
	svc := newDashboard(store, map[domain.Currency]float64{domain.USD: 1.25})

	data, err := svc.GetChartData(context.Background(), domain.ChartQuery{Currency: domain.GBP})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data.NetWorth[0].Value != 100 {
		t.Errorf("expected converted net worth 100, got %f", data.NetWorth[0].Value)
	}
}
