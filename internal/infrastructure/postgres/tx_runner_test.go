package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// runnerWith arma un TxRunner cuyos intentos devuelven los errores de results en orden.
func runnerWith(maxRetries int, results ...error) (*TxRunner, *int) {
	calls := 0
	r := &TxRunner{maxRetries: maxRetries, log: logger.Nop()}
	r.once = func(_ context.Context, _ func(inventory.Repos) error) error {
		err := results[calls]
		calls++
		return err
	}
	return r, &calls
}

func pgErr(code string) error {
	return fmt.Errorf("update stock: %w", &pgconn.PgError{Code: code})
}

func TestTxRunner_AgotaReintentosYDevuelveConflict(t *testing.T) {
	r, calls := runnerWith(2, pgErr("40001"), pgErr("40P01"), pgErr("40001"))

	err := r.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, *calls, "un intento más los reintentos configurados")
}

func TestTxRunner_SinReintentosUnSoloIntento(t *testing.T) {
	r, calls := runnerWith(0, pgErr("40P01"))

	err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, *calls)
}

func TestTxRunner_ReintentoExitoso(t *testing.T) {
	r, calls := runnerWith(3, pgErr("40P01"), nil)

	require.NoError(t, r.Run(context.Background(), nil))
	assert.Equal(t, 2, *calls)
}

func TestTxRunner_ErrorNoReintentableSeDevuelveTalCual(t *testing.T) {
	r, calls := runnerWith(3, fmt.Errorf("venta: %w", domain.ErrInsufficientStock))

	err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 1, *calls)
}

func TestTxRunner_ContextoCanceladoCortaLaEspera(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, calls := runnerWith(3, pgErr("40001"), nil)
	r.once = func(_ context.Context, _ func(inventory.Repos) error) error {
		*calls++
		cancel()
		return pgErr("40001")
	}

	err := r.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, *calls)
}
