// Package brcode assembles and parses Pix "copia e cola" payloads, the
// EMV Merchant Presented Mode TLV text defined by the Central Bank of Brazil.
// https://www.bcb.gov.br/content/estabilidadefinanceira/spb_docs/ManualBRCode.pdf.
package brcode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
)

// Top-level EMV MPM IDs used by Pix.
const (
	idPayloadFormat      = "00"
	idInitiationMethod   = "01"
	idMerchantAccount    = "26"
	idMerchantCategory   = "52"
	idCurrency           = "53"
	idAmount             = "54"
	idCountryCode        = "58"
	idMerchantName       = "59"
	idMerchantCity       = "60"
	idAdditionalData     = "62"
	idCRC                = "63"
	subIDGUI             = "00"
	subIDKey             = "01"
	subIDDescription     = "02"
	subIDTxID            = "05"
	payloadFormat        = "01"
	initiationDynamic    = "12"
	pixGUI               = "br.gov.bcb.pix"
	merchantCategoryNone = "0000"
	currencyBRL          = "986"
	countryBR            = "BR"
)

// Field caps, in bytes, after normalization.
const (
	MaxMerchantNameLen = 25
	MaxMerchantCityLen = 15
	MaxTxIDLen         = 25
	MaxDescriptionLen  = 25
)

var (
	ErrInvalidAmount = errorutil.New("amount must be positive with exactly two decimals")
	ErrEmptyField    = errorutil.New("required field is empty")
)

var amountRx = regexp.MustCompile(`^\d{1,10}\.\d{2}$`)

// Options carries the inputs of a single charge payload. Encode is a pure
// function of these values.
type Options struct {
	Key          string
	KeyType      pixkey.Type
	Amount       string
	MerchantName string
	MerchantCity string
	TxID         string
	Description  string
}

// Encode assembles the full BR Code string. The field order is part of the
// wire contract and must not change. The CRC field is built in two passes:
// the payload is assembled with the checksum header "6304" appended, the
// checksum is computed over that whole prefix, and the 4 hex digits are
// concatenated at the end.
func Encode(opts Options) (string, error) {
	amount := strings.TrimSpace(opts.Amount)
	if !amountRx.MatchString(amount) || !strings.ContainsAny(amount, "123456789") {
		return "", errorutil.Format("%w: got %q", ErrInvalidAmount, opts.Amount)
	}

	name := NormalizeField(opts.MerchantName, MaxMerchantNameLen)
	city := NormalizeField(opts.MerchantCity, MaxMerchantCityLen)
	if name == "" {
		return "", errorutil.Format("%w: merchant name", ErrEmptyField)
	}
	if city == "" {
		return "", errorutil.Format("%w: merchant city", ErrEmptyField)
	}

	txID := NormalizeField(opts.TxID, MaxTxIDLen)
	if txID == "" {
		return "", errorutil.Format("%w: transaction id", ErrEmptyField)
	}

	account, err := merchantAccount(opts)
	if err != nil {
		return "", err
	}

	txIDField, err := tlvEncode(subIDTxID, txID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, f := range []struct{ id, value string }{
		{idPayloadFormat, payloadFormat},
		{idInitiationMethod, initiationDynamic},
		{idMerchantAccount, account},
		{idMerchantCategory, merchantCategoryNone},
		{idCurrency, currencyBRL},
		{idAmount, amount},
		{idCountryCode, countryBR},
		{idMerchantName, name},
		{idMerchantCity, city},
		{idAdditionalData, txIDField},
	} {
		field, err := tlvEncode(f.id, f.value)
		if err != nil {
			return "", err
		}
		b.WriteString(field)
	}

	// The checksum covers the CRC field's own ID and length header.
	b.WriteString(idCRC + "04")
	return b.String() + CRC16Hex([]byte(b.String())), nil
}

func merchantAccount(opts Options) (string, error) {
	key := pixkey.Normalize(opts.Key, opts.KeyType)
	if key == "" {
		return "", errorutil.Format("%w: pix key", ErrEmptyField)
	}

	gui, err := tlvEncode(subIDGUI, pixGUI)
	if err != nil {
		return "", err
	}
	keyField, err := tlvEncode(subIDKey, key)
	if err != nil {
		return "", err
	}
	account := gui + keyField

	if desc := NormalizeField(opts.Description, MaxDescriptionLen); desc != "" && len(account)+4+len(desc) <= maxValueLen {
		descField, err := tlvEncode(subIDDescription, desc)
		if err != nil {
			return "", err
		}
		account += descField
	}

	return account, nil
}

// Code holds the fields extracted from a parsed BR Code.
type Code struct {
	Key           string
	Amount        string
	TransactionID string
}

// Parse decodes a Pix "copia e cola" string and extracts key, amount and
// transaction id, verifying the trailing CRC along the way.
func Parse(copyPaste string) (Code, error) {
	s := strings.TrimSpace(copyPaste)
	if len(s) < 8 {
		return Code{}, errorutil.New("invalid BR Code: too short")
	}

	if crc := CRC16Hex([]byte(s[:len(s)-4])); crc != s[len(s)-4:] {
		return Code{}, errorutil.Format("invalid BR Code checksum: want %s, got %s", crc, s[len(s)-4:])
	}

	root, err := tlvDecode(s)
	if err != nil {
		return Code{}, err
	}

	var out Code

	out.Amount = tlvFirstValue(root, idAmount)
	if out.Amount != "" && !amountRx.MatchString(out.Amount) {
		return Code{}, errorutil.New("invalid amount: use format 123.45")
	}

	// TxID (62/05) is optional; "***" means absent.
	if ad := tlvFirst(root, idAdditionalData); ad != nil {
		subs, _ := tlvDecode(ad.Value)
		if tx := tlvFirstValue(subs, subIDTxID); tx != "" && tx != "***" {
			out.TransactionID = tx
		}
	}

	// Merchant Account Information lives in IDs 26..51; find the template
	// whose GUI is br.gov.bcb.pix.
	for _, t := range root {
		idn, _ := strconv.Atoi(t.ID)
		if idn < 26 || idn > 51 {
			continue
		}
		subs, _ := tlvDecode(t.Value)
		if !strings.EqualFold(tlvFirstValue(subs, subIDGUI), pixGUI) {
			continue
		}
		if key := tlvFirstValue(subs, subIDKey); key != "" {
			out.Key = key
		}
		break
	}

	return out, nil
}
