// Package password hashes and verifies user secrets with bcrypt.
//
// Each Hash call draws a fresh random salt, so equal inputs produce unequal
// digests. Verification recomputes the hash with the parameters and salt
// embedded in the digest and compares in constant time; malformed digests
// verify as false rather than erroring.
package password
