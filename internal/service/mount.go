package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/internal/auth"
	"github.com/mmynk/ledgerbook/internal/metrics"
	"github.com/mmynk/ledgerbook/internal/middleware"
	"github.com/mmynk/ledgerbook/pkg/api/apiconnect"
)

// Services groups the RPC implementations mounted by Mount.
type Services struct {
	Books  *BookService
	Ledger *LedgerService
	Auth   *AuthService
}

// Mount registers all services on mux.
//
// Interceptors run outermost first: metrics see every call, including the
// ones the auth interceptor rejects. Book and ledger calls require a valid
// session; auth calls accept anonymous requests.
func Mount(mux *http.ServeMux, svcs Services, jwtManager *auth.JWTManager, m *metrics.Metrics) {
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux.Handle(apiconnect.NewBookServiceHandler(svcs.Books, protected))
	mux.Handle(apiconnect.NewLedgerServiceHandler(svcs.Ledger, protected))
	mux.Handle(apiconnect.NewAuthServiceHandler(svcs.Auth, public))
}
