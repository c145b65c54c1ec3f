package constant

const (
	ADDED                    = "Added successfully"
	DELETED                  = "Deleted successfully"
	UPDATED                  = "Updated successfully"
	INVALID_PAGE_NUMBER      = "invalid page number"
	PAGE_NUMBER_OUT_OF_RANGE = "page number out of range"

	INVALID_ID               = "invalid id"
	AMOUNT_NOT_POSITIVE      = "amount must be greater than zero"
	INVALID_DIRECTION        = "direction must be inflow or outflow"
	INVALID_PAYMENT_FORM     = "payment_form must be single or installment"
	INSTALLMENTS_REQUIRED    = "installment_count must be between 2 and %d for installment payments"
	INVALID_REMINDER_DAY     = "reminder_day must be between 1 and 31"
	INVALID_CATEGORY         = "category does not exist"
	INVALID_YEAR             = "invalid year"
	INVALID_MONTH            = "month must be between 1 and 12"
	GOAL_TARGET_NOT_POSITIVE = "target_amount must be greater than zero"
	CATEGORY_IN_USE          = "category is used by transactions"
	GOAL_AMOUNT_NEGATIVE     = "current_amount cannot be negative"
	CONTRIBUTION_ADDED       = "Contribution added"
)

const (
	MaxInstallments = 120

	NotificationWindowDays = 7
	UpcomingWindowDays     = 30
)
