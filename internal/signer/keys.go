package signer

import (
	"crypto/hmac"
	"crypto/sha512"
)

const (
	// signaturePrefix seeds the first step of the key derivation chain.
	signaturePrefix = "ifr"
	// requestTerminator closes both the credential scope and the key chain.
	requestTerminator = "ifr_request"
)

func hmacSHA384(key []byte, message string) []byte {
	mac := hmac.New(sha512.New384, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// DeriveSigningKey computes the single-use signing key for one request:
// four chained HMAC-SHA384 operations over the short date, region, service
// code and the fixed terminator, starting from "ifr" + secret key.
//
// The key is derived fresh per call and never cached; a new timestamp is
// generated per signing operation so caching would reopen replay windows.
func DeriveSigningKey(secretKey, shortDate, region, serviceCode string) []byte {
	dateKey := hmacSHA384([]byte(signaturePrefix+secretKey), shortDate)
	regionKey := hmacSHA384(dateKey, region)
	serviceKey := hmacSHA384(regionKey, serviceCode)
	return hmacSHA384(serviceKey, requestTerminator)
}
