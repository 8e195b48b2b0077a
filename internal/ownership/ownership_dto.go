package ownership

type TransferOwnerRequest struct {
	NewOwner string `json:"new_owner" binding:"required"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}
