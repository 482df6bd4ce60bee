package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// illegalOperationCode is returned by standalone servers for any command
// that carries a transaction number.
const illegalOperationCode = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	ExecuteWithFallback(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	log    *logger.Logger
}

func NewTransactionManager(client *mongo.Client, log *logger.Logger) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		log:    log,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// ExecuteWithFallback runs fn in a transaction. When the deployment cannot
// run transactions fn is run again on ctx without one, so fn must not keep
// results from the failed attempt.
func (m *mongoTransactionManager) ExecuteWithFallback(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
	if err == nil || !TransactionsUnsupported(err) {
		return err
	}

	m.log.Warn("Transactions not supported by deployment, running without one", "error", err)
	return fn(ctx)
}

// TransactionsUnsupported reports whether err comes from a server that
// rejects transactions, such as a standalone mongod.
func TransactionsUnsupported(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(illegalOperationCode)
}
