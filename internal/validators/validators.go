package validators

//
// validators.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "regexp"

var reOwnerID = regexp.MustCompile(`^[\w+.@-]+$`)

func IsValidOwnerID(ownerID string) bool {
	return reOwnerID.MatchString(ownerID)
}

// Tokens are 64 characters of base64 raw-url alphabet. Anything else
// can be rejected without touching the store.
var reToken = regexp.MustCompile(`^[A-Za-z0-9_-]{64}$`)

func IsValidToken(token string) bool {
	return reToken.MatchString(token)
}

var reID = regexp.MustCompile(`^[a-z0-9]{20}$`)

// IsValidID check xid-formatted identifiers (calendars, subscriptions).
func IsValidID(id string) bool {
	return reID.MatchString(id)
}
