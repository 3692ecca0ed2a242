// Package sdk is the public entry point of zkvault.
//
// A Client owns everything one application instance needs: the schema and
// job-type registries, the mock job store, the coordinator client and the
// Solana connections. Nothing is shared between clients, and Close tears
// all of it down.
//
//	cfg := &sdk.Config{RPCEndpoint: "https://api.devnet.solana.com"}
//	c, err := sdk.New(ctx, cfg, sdk.WithWallet(wallet))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	_ = c.State().DefineSchema(schema)
//	res, err := c.State().CreateState(ctx, params, c.Wallet())
package sdk
