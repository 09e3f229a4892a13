package handlers

import (
	"context"

	"rotarykeypad/internal/models"
	"rotarykeypad/internal/service"
)

// Hand-written service stubs for handler tests. Each embeds nothing and
// records just what the test under it needs.

type mockAuth struct {
	signUpID    int
	signUpErr   error
	token       string
	tokenErr    error
	parseUserID int
	parseErr    error

	signedUpUser string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.signedUpUser = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(accessToken string) (int, error) {
	return m.parseUserID, m.parseErr
}

type mockMonitoring struct {
	state models.DialState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.DialState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	filter service.EventFilter
	events []models.DialEvent
	err    error
}

func (m *mockEventLog) List(ctx context.Context, f service.EventFilter) ([]models.DialEvent, error) {
	m.filter = f
	return m.events, m.err
}

type mockKeys struct {
	sent []int
	err  error
}

func (m *mockKeys) SendTest(digit int) error {
	m.sent = append(m.sent, digit)
	return m.err
}

type mockListener struct{}

func (mockListener) Run(ctx context.Context) {}
