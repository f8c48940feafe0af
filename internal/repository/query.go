package repository

var orderColumns = []string{
	"id",
	"tour_id",
	"tour_name",
	"price",
	"user_id",
	"user_name",
	"user_phone",
	"status",
	"click_trans_id",
	"click_paydoc_id",
	"prepared_at",
	"paid_at",
	"cancelled_at",
	"fiscal_status",
	"fiscal_qr_code",
	"fiscal_error",
	"fiscalized_at",
	"version",
	"created_at",
	"updated_at",
}

const (
	selectOrder = `SELECT
		id,
		tour_id,
		tour_name,
		price,
		user_id,
		user_name,
		user_phone,
		status,
		click_trans_id,
		click_paydoc_id,
		prepared_at,
		paid_at,
		cancelled_at,
		fiscal_status,
		fiscal_qr_code,
		fiscal_error,
		fiscalized_at,
		version,
		created_at,
		updated_at
	FROM orders`
)
