package wizard

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/migrate"
	"github.com/KirkDiggler/wod-character-wizard/internal/schema"
)

// Parse decodes a saved character file. The document is migrated to the
// current schema and then validated; nothing is returned unless both pass.
func Parse(cat *catalog.Catalog, data []byte) (*character.Character, error) {
	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return schema.Validate(migrate.WithCatalog(cat, doc))
}

// MigrateDocument decodes data and returns the migrated document without
// validating it.
func MigrateDocument(cat *catalog.Catalog, data []byte) (map[string]any, error) {
	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return migrate.WithCatalog(cat, doc), nil
}

// Marshal encodes c as a character file
func Marshal(c *character.Character) ([]byte, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("character is required")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to encode character")
	}
	return data, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, dnderr.Unparseable(err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, dnderr.Unparseable(fmt.Errorf("top-level value is %T", raw))
	}
	return doc, nil
}

// checked runs c through the validator so a session never holds a character
// that would not load back from its own file.
func checked(c *character.Character) (*character.Character, error) {
	doc, err := schema.Encode(c)
	if err != nil {
		return nil, err
	}
	return schema.Validate(doc)
}
