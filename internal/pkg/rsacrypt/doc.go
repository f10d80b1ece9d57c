// Package rsacrypt loads RSA keys from PEM and performs RSA-OAEP encryption
// and decryption.
//
// Private keys may be PKCS#1 ("RSA PRIVATE KEY") or PKCS#8 ("PRIVATE KEY").
// Public keys may be PKIX ("PUBLIC KEY") or PKCS#1 ("RSA PUBLIC KEY").
package rsacrypt
