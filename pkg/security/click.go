package security

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CallbackFields are the Prepare/Complete request fields covered by sign_string.
// MerchantPrepareID is empty for Prepare requests.
type CallbackFields struct {
	ClickTransID      string
	ServiceID         string
	MerchantTransID   string
	MerchantPrepareID string
	Amount            string
	Action            string
	SignTime          string
}

// CallbackSignature returns the md5 hex digest Click puts into sign_string.
func CallbackSignature(f CallbackFields, secret string) string {
	var b strings.Builder

	b.WriteString(f.ClickTransID)
	b.WriteString(f.ServiceID)
	b.WriteString(f.MerchantTransID)
	b.WriteString(f.MerchantPrepareID)
	b.WriteString(f.Amount)
	b.WriteString(f.Action)
	b.WriteString(f.SignTime)
	b.WriteString(secret)

	return md5Hex(b.String())
}

// VerifyCallback compares sign_string with the expected digest. The comparison is case-sensitive.
func VerifyCallback(f CallbackFields, secret, signString string) bool {
	expected := CallbackSignature(f, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signString)) == 1
}

// RedirectSignature signs the payment page link.
func RedirectSignature(serviceID, orderID, signTime, secret string) string {
	return md5Hex(serviceID + orderID + signTime + secret)
}

// AuthHeader builds the Auth header of the merchant API. It must be built for every request.
func AuthHeader(merchantUserID, secret string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)

	digest := sha1.Sum([]byte(ts + secret)) //nolint:gosec

	return fmt.Sprintf("%s:%s:%s", merchantUserID, hex.EncodeToString(digest[:]), ts)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
