// Package otp implements the one-time password core: a lenient Base32 codec,
// HMAC over SHA1/SHA256/SHA512, HOTP/TOTP code generation (RFC 4226/6238)
// and the otpauth:// URI format used for import and export.
//
// Everything here is a pure function of its inputs. Callers own the clock
// and pass unix seconds explicitly.
package otp
