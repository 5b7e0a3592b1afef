package storage

const (
	// Transaction queries
	CreateTransactionQuery = `
		INSERT INTO transactions (id, transaction_id, source_account, destination_account, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	// Получить транзакцию по внешнему идентификатору
	GetTransactionByExternalIDQuery = `
		SELECT id, transaction_id, source_account, destination_account, amount, currency, status, created_at, processed_at
		FROM transactions
		WHERE transaction_id = $1
	`

	// Перевод статуса (только из ожидаемого текущего состояния)
	UpdateTransactionStatusQuery = `
		UPDATE transactions
		SET status = $2, processed_at = $3
		WHERE transaction_id = $1 AND status = $4
	`
)
