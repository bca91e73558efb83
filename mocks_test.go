package taskboard_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	taskboard "github.com/goliatone/go-taskboard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockLogger implements taskboard.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// noopLogger swallows output in tests where we don't assert on logs
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MockIdentity implements taskboard.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) FullName() string {
	args := m.Called()
	return args.String(0)
}

// MockUserTracker implements taskboard.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*taskboard.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *taskboard.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockUsers implements the methods of taskboard.Users the code under test
// touches. The embedded interface covers the rest of the surface.
type MockUsers struct {
	mock.Mock
	taskboard.Users
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *taskboard.User) (*taskboard.User, error) {
	args := m.Called(ctx, tx, user)
	record, _ := args.Get(0).(*taskboard.User)
	return record, args.Error(1)
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*taskboard.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*taskboard.User, error) {
	args := m.Called(ctx, tx, identifier)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetSanitizedByID(ctx context.Context, id uuid.UUID) (*taskboard.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByUsernameOrEmail(ctx context.Context, username, email string) (*taskboard.User, error) {
	args := m.Called(ctx, username, email)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

func (m *MockUsers) UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	args := m.Called(ctx, id, refreshToken)
	return args.Error(0)
}

func (m *MockUsers) SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) AppendTask(ctx context.Context, id uuid.UUID, taskID uuid.UUID) error {
	args := m.Called(ctx, id, taskID)
	return args.Error(0)
}

func (m *MockUsers) UpdateTx(ctx context.Context, tx bun.IDB, record *taskboard.User, criteria ...repository.UpdateCriteria) (*taskboard.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*taskboard.User)
	return user, args.Error(1)
}

// MockTasks implements the methods of taskboard.Tasks the code under test
// touches.
type MockTasks struct {
	mock.Mock
	taskboard.Tasks
}

func (m *MockTasks) Create(ctx context.Context, record *taskboard.Task, criteria ...repository.InsertCriteria) (*taskboard.Task, error) {
	args := m.Called(ctx, record)
	task, _ := args.Get(0).(*taskboard.Task)
	return task, args.Error(1)
}

func (m *MockTasks) FindByID(ctx context.Context, id uuid.UUID) (*taskboard.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*taskboard.Task)
	return task, args.Error(1)
}

func (m *MockTasks) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*taskboard.Task, error) {
	args := m.Called(ctx, ids)
	tasks, _ := args.Get(0).([]*taskboard.Task)
	return tasks, args.Error(1)
}

func (m *MockTasks) Update(ctx context.Context, record *taskboard.Task, criteria ...repository.UpdateCriteria) (*taskboard.Task, error) {
	args := m.Called(ctx, record)
	task, _ := args.Get(0).(*taskboard.Task)
	return task, args.Error(1)
}

func (m *MockTasks) DeleteByID(ctx context.Context, id uuid.UUID) (*taskboard.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*taskboard.Task)
	return task, args.Error(1)
}

// MockRepositoryManager wires the mock repositories together. RunInTx runs
// the callback inline with a zero transaction.
type MockRepositoryManager struct {
	users *MockUsers
	tasks *MockTasks
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users: &MockUsers{},
		tasks: &MockTasks{},
	}
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Users() taskboard.Users { return m.users }
func (m *MockRepositoryManager) Tasks() taskboard.Tasks { return m.tasks }

// testConfig implements taskboard.Config
type testConfig struct {
	accessKey     string
	refreshKey    string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func newTestConfig() *testConfig {
	return &testConfig{
		accessKey:     "access-secret",
		refreshKey:    "refresh-secret",
		accessExpiry:  time.Minute * 15,
		refreshExpiry: time.Hour * 24 * 7,
	}
}

func (c *testConfig) GetAccessSigningKey() string              { return c.accessKey }
func (c *testConfig) GetRefreshSigningKey() string             { return c.refreshKey }
func (c *testConfig) GetAccessTokenExpiration() time.Duration  { return c.accessExpiry }
func (c *testConfig) GetRefreshTokenExpiration() time.Duration { return c.refreshExpiry }
func (c *testConfig) GetSigningMethod() string                 { return "HS256" }
func (c *testConfig) GetContextKey() string                    { return "user" }
func (c *testConfig) GetTokenLookup() string                   { return "cookie:accessToken,header:Authorization" }
func (c *testConfig) GetAuthScheme() string                    { return "Bearer" }
func (c *testConfig) GetIssuer() string                        { return "taskboard-test" }
func (c *testConfig) GetAudience() []string                    { return nil }

func testIdentity(id, username, email, fullName string) *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return(id)
	identity.On("Username").Return(username)
	identity.On("Email").Return(email)
	identity.On("FullName").Return(fullName)
	return identity
}
