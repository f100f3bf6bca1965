package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/SscSPs/money_tracker/pkg/client"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MtctlTestSuite struct {
	suite.Suite
	server      *httptest.Server
	mux         *http.ServeMux
	sessionPath string
	token       string
}

func (s *MtctlTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.sessionPath = filepath.Join(s.T().TempDir(), "session.json")

	token, _, err := utils.GenerateJWT("user-1", "mtctl-test-secret-that-is-long-enough", time.Hour, "mt-test")
	s.Require().NoError(err)
	s.token = token
}

func (s *MtctlTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *MtctlTestSuite) login() {
	s.Require().NoError(client.FileSession{Path: s.sessionPath}.Save(client.Session{Token: s.token, Username: "alice"}))
}

func (s *MtctlTestSuite) run(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out, strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", s.server.URL, "--session", s.sessionPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestMtctlTestSuite(t *testing.T) {
	suite.Run(t, new(MtctlTestSuite))
}

func (s *MtctlTestSuite) TestLoginPromptsAndSavesSession() {
	s.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("alice", req.Username)
		s.Equal("secret1", req.Password)
		writeJSON(w, http.StatusOK, dto.LoginResponse{Token: s.token, Username: "alice", ExpiresAt: time.Now().Add(time.Hour)})
	})

	out, err := s.run("secret1\n", "login", "-u", "alice")
	s.Require().NoError(err)
	s.Contains(out, "Logged in as alice")

	session, err := client.FileSession{Path: s.sessionPath}.Load()
	s.Require().NoError(err)
	s.Equal(s.token, session.Token)
}

func (s *MtctlTestSuite) TestRegisterValidatesLocally() {
	_, err := s.run("", "register", "-u", "a b", "-p", "secret1")
	s.ErrorContains(err, "username must be")

	_, err = s.run("", "register", "-u", "alice", "-p", "123")
	s.ErrorContains(err, "password must be at least")
}

func (s *MtctlTestSuite) TestPeopleTable() {
	s.login()
	s.mux.HandleFunc("GET /api/people/all", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer "+s.token, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []dto.PersonResponse{{Name: "Bob", Balance: decimal.RequireFromString("-12.5")}})
	})

	out, err := s.run("", "people")
	s.Require().NoError(err)
	s.Contains(out, "NAME")
	s.Contains(out, "-12.50")
}

func (s *MtctlTestSuite) TestSendValidatesBeforeCalling() {
	s.login()
	called := false
	s.mux.HandleFunc("POST /api/people/send", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, amount := range []string{"0", "1.234", "1000000.01", "abc"} {
		_, err := s.run("", "send", "Bob", amount)
		s.Error(err, amount)
	}
	_, err := s.run("", "send", "Bob", "5", "-d", strings.Repeat("x", 256))
	s.ErrorContains(err, "description")
	s.False(called)
}

func (s *MtctlTestSuite) TestReceive() {
	s.login()
	s.mux.HandleFunc("POST /api/people/receive", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bob", r.URL.Query().Get("name"))
		s.Equal("20", r.URL.Query().Get("amount"))
		s.Equal("refund", r.URL.Query().Get("description"))
		writeJSON(w, http.StatusCreated, dto.MutationResponse{
			Person:      dto.PersonResponse{Name: "Bob", Balance: decimal.NewFromInt(20)},
			Transaction: dto.TransactionResponse{ID: 3, Type: "RECEIVE", Amount: decimal.NewFromInt(20)},
		})
	})

	out, err := s.run("", "receive", " Bob ", "20", "-d", "refund")
	s.Require().NoError(err)
	s.Contains(out, "Recorded #3 RECEIVE 20.00. Bob's balance is now 20.00")
}

func (s *MtctlTestSuite) TestDeleteAsksForConfirmation() {
	s.login()
	deleted := 0
	s.mux.HandleFunc("DELETE /api/people/{name}", func(w http.ResponseWriter, r *http.Request) {
		deleted++
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := s.run("n\n", "delete", "Bob")
	s.Require().NoError(err)
	s.Contains(out, "Cancelled")
	s.Zero(deleted)

	_, err = s.run("", "delete", "Bob")
	s.Require().NoError(err)
	s.Zero(deleted)

	out, err = s.run("", "delete", "Bob", "--yes")
	s.Require().NoError(err)
	s.Contains(out, "Deleted Bob")
	s.Equal(1, deleted)
}

func (s *MtctlTestSuite) TestTransactionsExpandedGroup() {
	s.login()
	s.mux.HandleFunc("GET /api/people/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []dto.PersonResponse{
			{Name: "alice", Balance: decimal.NewFromInt(40)},
			{Name: "Bob", Balance: decimal.RequireFromString("-12.5")},
		})
	})
	s.mux.HandleFunc("GET /api/transactions/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []dto.TransactionResponse{
			{ID: 1, Person: "alice", Type: "RECEIVE", Amount: decimal.NewFromInt(50), Description: "salary share"},
			{ID: 2, Person: "alice", Type: "SEND", Amount: decimal.NewFromInt(10), Description: "coffee"},
			{ID: 4, Person: "Bob", Type: "SEND", Amount: decimal.RequireFromString("12.5"), Description: "lunch"},
		})
	})

	out, err := s.run("", "transactions", "--expand", "alice")
	s.Require().NoError(err)
	s.Contains(out, "- alice")
	s.Contains(out, "+ Bob")
	s.Contains(out, "#2")
	s.NotContains(out, "#4")
	s.Contains(out, "27.50")

	out, err = s.run("", "transactions", "--q", "lunch")
	s.Require().NoError(err)
	s.Contains(out, "+ Bob")
	s.NotContains(out, "alice")

	_, err = s.run("", "transactions", "--type", "gift")
	s.Error(err)
}

func (s *MtctlTestSuite) TestExpiredSessionIsReported() {
	expired, _, err := utils.GenerateJWT("user-1", "mtctl-test-secret-that-is-long-enough", -time.Minute, "mt-test")
	s.Require().NoError(err)
	s.Require().NoError(client.FileSession{Path: s.sessionPath}.Save(client.Session{Token: expired}))

	_, err = s.run("", "people")
	s.ErrorIs(err, client.ErrSessionExpired)

	_, statErr := os.Stat(s.sessionPath)
	s.True(os.IsNotExist(statErr))
}

func (s *MtctlTestSuite) TestExportToFile() {
	s.login()
	s.mux.HandleFunc("GET /api/transactions/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,date\n"))
	})
	path := filepath.Join(s.T().TempDir(), "out.csv")

	out, err := s.run("", "export", "-o", path)
	s.Require().NoError(err)
	s.Contains(out, "Wrote "+path)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("id,date\n", string(data))
}

func (s *MtctlTestSuite) TestSummary() {
	s.login()
	s.mux.HandleFunc("GET /api/transactions/summary", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("2024-01-01", r.URL.Query().Get("from"))
		writeJSON(w, http.StatusOK, dto.SummaryResponse{TotalsResponse: dto.TotalsResponse{
			Sent: decimal.NewFromInt(4), Received: decimal.NewFromInt(10), Net: decimal.NewFromInt(6), Count: 2,
		}})
	})

	out, err := s.run("", "summary", "--from", "2024-01-01")
	s.Require().NoError(err)
	s.Contains(out, "6.00")
}

func TestConfirmTreatsEOFAsNo(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out}
	a.in = bufio.NewReader(strings.NewReader(""))
	ok, err := a.confirm(false, "Really?")
	require.NoError(t, err)
	assert.False(t, ok)

	a.in = bufio.NewReader(strings.NewReader("YES\n"))
	ok, err = a.confirm(false, "Really?")
	require.NoError(t, err)
	assert.True(t, ok)
}
