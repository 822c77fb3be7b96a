//
// package.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"github.com/samber/do/v2"
)

var Package = do.Package(
	do.Lazy(New),
	do.Lazy(NewMgmt),
)
