package api

// Helius API Client-
//
// Files:
//   config.go        - endpoints, cluster/region constants and defaults
//   types.go         - wire envelopes and error types
//   base.go          - core client (client struct, newClient, options, json-rpc and rest helpers)
//   das.go           - digital asset queries (getAsset, searchAssets, ...)
//   mint.go          - compressed nft minting and collection authority
//   webhooks.go      - webhook crud
//   transactions.go  - smart transactions, confirmation polling, jito tips
//   helpers.go       - tps, airdrop, stake accounts, token holders, priority fees
//
// Usage:
//   client := api.NewClient(apiKey)                        // from base.go
//   asset, err := client.DAS.GetAsset(ctx, id)             // from das.go
//   hooks, err := client.Webhooks.GetAllWebhooks(ctx)      // from webhooks.go
//   sig, err := client.Transactions.SendSmartTransaction(  // from transactions.go
//       ctx, instructions, signers, nil, api.SendOptions{})
//   tps, err := client.Helpers.GetCurrentTPS(ctx)          // from helpers.go
