package api

import "time"

// cluster constants
const (
	ClusterMainnet = "mainnet"
	ClusterDevnet  = "devnet"
)

// Helius endpoints
const (
	// rpc's, the api key is appended as a query parameter
	MainnetRPCURL = "https://mainnet.helius-rpc.com/"
	DevnetRPCURL  = "https://devnet.helius-rpc.com/"

	// REST base for webhooks and mintlist
	MainnetAPIURL = "https://api.helius.xyz"
	DevnetAPIURL  = "https://api-devnet.helius.xyz"
)

// Jito block engine regions
const (
	RegionDefault   = "Default"
	RegionNY        = "NY"
	RegionAmsterdam = "Amsterdam"
	RegionFrankfurt = "Frankfurt"
	RegionTokyo     = "Tokyo"
)

// jitoEndpoints maps a region to its bundle endpoint
var jitoEndpoints = map[string]string{
	RegionDefault:   "https://mainnet.block-engine.jito.wtf/api/v1/bundles",
	RegionNY:        "https://ny.mainnet.block-engine.jito.wtf/api/v1/bundles",
	RegionAmsterdam: "https://amsterdam.mainnet.block-engine.jito.wtf/api/v1/bundles",
	RegionFrankfurt: "https://frankfurt.mainnet.block-engine.jito.wtf/api/v1/bundles",
	RegionTokyo:     "https://tokyo.mainnet.block-engine.jito.wtf/api/v1/bundles",
}

const (
	// DefaultTimeout is the HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultTipAmount is the Jito tip in lamports when none is given
	DefaultTipAmount uint64 = 100000

	// DefaultTipRegion is the block engine used when none is given
	DefaultTipRegion = RegionNY

	// confirmation polling for submitted transactions
	DefaultConfirmationTimeout  = 15 * time.Second
	DefaultConfirmationInterval = 5 * time.Second

	// bundle status polling for tipped transactions
	DefaultBundleTimeout  = 60 * time.Second
	DefaultBundleInterval = 5 * time.Second

	// mintlist page size used when collecting a collection's mints
	mintlistPageSize = 10000
)

// HeliusCollectionAuthority is the delegate Helius mints collection items with
const HeliusCollectionAuthority = "HnT5KVAywGgQDhmh6Usk4bxRg4RwKxCK4jmECyaDth5R"
