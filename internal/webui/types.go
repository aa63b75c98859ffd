package webui

// TransferRequest is the body of POST /api/transfer.
type TransferRequest struct {
	Token          string `json:"token"`
	Recipient      string `json:"recipient" validate:"required"`
	Amount         string `json:"amount" validate:"required"`
	Subaccount     string `json:"subaccount"`
	FromSubaccount string `json:"from_subaccount"`
	Memo           string `json:"memo"`
}

// IdentityRequest is the body of POST /api/identity/use.
type IdentityRequest struct {
	Name string `json:"name" validate:"required"`
}
