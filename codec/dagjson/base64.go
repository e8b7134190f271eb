package dagjson

import "encoding/base64"

// DAG-JSON's Bytes envelope uses RFC 4648 base64 without padding — the
// same RawStdEncoding used by go-ipld-prime's dagjson marshaller.

func encodeUnpaddedBase64(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

func decodeUnpaddedBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(s)
}
