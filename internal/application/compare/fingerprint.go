package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/turtacn/AutoCompare-Intelligence/internal/config"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Fingerprint identifies the inputs of a run: the request, the fuel price
// table and the engine tuning. Equal inputs always share a fingerprint.
func Fingerprint(req Request, prices vehicle.FuelPriceTable, engine config.EngineConfig) (string, error) {
	req.NoCache = false
	payload := struct {
		Request Request                `json:"request"`
		Prices  vehicle.FuelPriceTable `json:"prices"`
		Engine  config.EngineConfig    `json:"engine"`
	}{req, prices, engine}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "report:" + hex.EncodeToString(sum[:]), nil
}
