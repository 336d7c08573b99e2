package catalog

import (
	"bytes"
	"encoding/json"

	dto "github.com/dropDatabas3/comanda/internal/http/dto/catalog"
)

// inventoryBody decodifica tanto un objeto suelto como una lista.
type inventoryBody []dto.InventoryRequest

func (b *inventoryBody) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var one dto.InventoryRequest
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*b = inventoryBody{one}
		return nil
	}
	var many []dto.InventoryRequest
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*b = many
	return nil
}
