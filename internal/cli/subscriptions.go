//
// subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func newListSubscriptionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list owner subscriptions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Required: true, Aliases: []string{"u"}},
		},
		Action: wrap(listSubscriptionsCmd),
	}
}

//nolint:forbidigo
func listSubscriptionsCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	subsSrv := do.MustInvoke[*service.SubscriptionsSrv](injector)

	subs, err := subsSrv.ListSubscriptions(ctx,
		&query.ListSubscriptionsQuery{OwnerID: clicmd.String("owner")})
	if err != nil {
		return fmt.Errorf("get subscriptions list error: %w", err)
	}

	fmt.Printf("%-20s | %-30s | %-8s | %s \n", "ID", "Name", "Status", "Last used")
	fmt.Println("----------------------------------------------------------------------------")

	for _, s := range subs {
		lastused := "never"
		if s.LastUsedAt != nil {
			lastused = s.LastUsedAt.Format("2006-01-02 15:04")
		}

		fmt.Printf("%-20s | %-30s | %-8s | %s \n", s.ID, s.DisplayName, s.Status, lastused)
	}

	fmt.Printf("\nTotal: %d\n", len(subs))

	return nil
}

//---------------------------------------------------------------------

func newRevokeSubscriptionCmd() *cli.Command {
	return &cli.Command{
		Name:  "revoke",
		Usage: "revoke subscription; its feed address stops working permanently",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Required: true, Aliases: []string{"u"}},
			&cli.StringFlag{Name: "subscription", Required: true, Aliases: []string{"s"}},
		},
		Action: wrap(revokeSubscriptionCmd),
	}
}

//nolint:forbidigo
func revokeSubscriptionCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	subsSrv := do.MustInvoke[*service.SubscriptionsSrv](injector)

	res, err := subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        clicmd.String("owner"),
		SubscriptionID: clicmd.String("subscription"),
	})
	if err != nil {
		return fmt.Errorf("revoke subscription error: %w", err)
	}

	if res.AlreadyRevoked {
		fmt.Println("Subscription was already revoked")
	} else {
		fmt.Println("Subscription revoked")
	}

	return nil
}
