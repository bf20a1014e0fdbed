package brcode

import (
	"errors"
	"fmt"
	"strconv"
)

// TLV is a Tag-Length-Value pair as laid out in the EMV MPM text format:
// a 2-digit ID, a 2-digit decimal byte length and the value itself. Nested
// templates carry concatenated TLVs as their value.
type TLV struct {
	ID    string
	Value string
}

const maxValueLen = 99

var ErrValueTooLong = errors.New("tlv value exceeds 99 bytes")

// tlvEncode renders a single field as ID || LEN || VALUE. Every caller is
// responsible for bounding the value; lengths above 99 cannot be represented
// in two digits.
func tlvEncode(id, value string) (string, error) {
	if len(value) > maxValueLen {
		return "", fmt.Errorf("%w: id %s has %d bytes", ErrValueTooLong, id, len(value))
	}
	return fmt.Sprintf("%s%02d%s", id, len(value), value), nil
}

// tlvDecode splits a BR Code segment into its top-level TLVs.
func tlvDecode(s string) ([]TLV, error) {
	var out []TLV
	for i := 0; i < len(s); {
		if i+4 > len(s) {
			return nil, errors.New("truncated TLV header")
		}
		id := s[i : i+2]
		ln, err := strconv.Atoi(s[i+2 : i+4])
		if err != nil || ln < 1 {
			return nil, fmt.Errorf("bad length for ID %s", id)
		}
		i += 4
		if i+ln > len(s) {
			return nil, fmt.Errorf("truncated value for ID %s", id)
		}
		out = append(out, TLV{ID: id, Value: s[i : i+ln]})
		i += ln
	}
	return out, nil
}

func tlvFirst(tlvs []TLV, id string) *TLV {
	for i := range tlvs {
		if tlvs[i].ID == id {
			return &tlvs[i]
		}
	}
	return nil
}

func tlvFirstValue(tlvs []TLV, id string) string {
	if t := tlvFirst(tlvs, id); t != nil {
		return t.Value
	}
	return ""
}
