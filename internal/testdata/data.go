package testdata

import (
	"encoding/hex"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

var (
	// TX1 is a coinbase transaction, TX3 differs from it in the coinbase script only.
	TX1RawString = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff1a0386c40b2f7461616c2e636f6d2f00cf47ad9c7af83836000000ffffffff0117564425000000001976a914522cf9e7626d9bd8729e5a1398ece40dad1b6a2f88ac00000000"
	TX1Raw, _    = hex.DecodeString(TX1RawString)
	TX1          = "b042f298deabcebbf15355aa3a13c7d7cfe96c44ac4f492735f936f8e50d06f6"
	TX1Hash, _   = chainhash.NewHashFromHex(TX1)

	TX2RawString = "01000000016f8828b2d3f8085561d0b4ff6f5d17c269206fa3d32bcd3b22e26ce659ed12e7000000006b483045022100d3649d120249a09af44b4673eecec873109a3e120b9610b78858087fb225c9b9022037f16999b7a4fecdd9f47ebdc44abd74567a18940c37e1481ab0fe84d62152e4412102f87ce69f6ba5444aed49c34470041189c1e1060acd99341959c0594002c61bf0ffffffff01e7030000000000001976a914c2b6fd4319122b9b5156a2a0060d19864c24f49a88ac00000000"
	TX2Raw, _    = hex.DecodeString(TX2RawString)
	TX2          = "fbb5444147cf9fa5c4208ca56e1e2ca061da0153ea72a3fb16993865ba601106"
	TX2Hash, _   = chainhash.NewHashFromHex(TX2)

	TX3RawString = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff1a0387c40b2f7461616c2e636f6d2f00cf47ad9c7af83836000000ffffffff0117564425000000001976a914522cf9e7626d9bd8729e5a1398ece40dad1b6a2f88ac00000000"
	TX3Raw, _    = hex.DecodeString(TX3RawString)
	TX3          = "344bb8b4e8bf6285cf2b009378820ae179ca07768a91374ed390d51e25c1f1bf"
	TX3Hash, _   = chainhash.NewHashFromHex(TX3)

	Time = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
)
