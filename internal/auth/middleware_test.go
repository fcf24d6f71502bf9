package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	svc := newTestService(new(mockUserStore), &memoryRevocations{})
	user := User{ID: uuid.New(), Email: "t@b.hu", Role: RoleTeacher}
	pair, err := svc.generateTokenPair(user)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := AuthMiddleware(svc, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		want   uuid.UUID
	}{
		{"no header", "", uuid.Nil},
		{"garbage token", "Bearer nope", uuid.Nil},
		{"wrong scheme", "Basic " + pair.AccessToken, uuid.Nil},
		{"valid token", "Bearer " + pair.AccessToken, user.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, seen)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := newTestService(new(mockUserStore), nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := AuthMiddleware(svc, zerolog.Nop())(RequireRole(RoleTeacher)(ok))

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			pair, err := svc.generateTokenPair(User{ID: uuid.New(), Email: "x@b.hu", Role: role})
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusForbidden, serve(RoleStudent))
	assert.Equal(t, http.StatusOK, serve(RoleTeacher))
}
