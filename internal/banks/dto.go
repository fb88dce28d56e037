package banks

type accountRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	BankName      string `json:"bank_name" validate:"required,min=2,max=120"`
	BankCode      string `json:"bank_code" validate:"required,min=2,max=20"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=34"`
	AccountName   string `json:"account_name" validate:"required,min=2,max=120"`
	Currency      string `json:"currency" validate:"required,len=3"`
}

type verifyRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}
