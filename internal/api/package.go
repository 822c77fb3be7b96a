package api

//
// package.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "github.com/samber/do/v2"

var Package = do.Package(
	do.Lazy(New),
	do.Lazy(newSubscriptionsResource),
	do.Lazy(newCalendarsResource),
	do.Lazy(newFeedResource),
)
