package charge

import "github.com/juniorwebyte/ploutos-sub000/internal/errorutil"

var (
	ErrNotFound           = errorutil.New("charge not found")
	ErrInvalidAmount      = errorutil.New("invalid charge amount")
	ErrInvalidMerchantKey = errorutil.New("merchant pix key is invalid")
	ErrEmptyRequiredField = errorutil.New("required field normalizes to empty")
	ErrInvalidTransition  = errorutil.New("charge is not active")
)
