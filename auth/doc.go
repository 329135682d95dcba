// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles the opaque client identity and poll join codes.

A client is identified solely by a random UUID carried in an HttpOnly
cookie; there are no accounts or passwords. Join codes are short uppercase
hex tokens typed by humans, matched case-insensitively.
*/
package auth
