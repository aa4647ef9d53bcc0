package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/sequencer"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/services/wizard"
	"github.com/KirkDiggler/wod-character-wizard/internal/sheet"
)

func readCharacter(cat *catalog.Catalog, path string) (*character.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := wizard.Parse(cat, data)
	if err != nil {
		return nil, dnderr.Wrapf(err, "%s", path).WithMeta("file", path)
	}
	return c, nil
}

func oneFile(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", dnderr.InvalidArgumentf("%s needs exactly one file", cmd)
	}
	return args[0], nil
}

func validateFiles(cat *catalog.Catalog, _ []sheet.Option, args []string) error {
	if len(args) == 0 {
		return dnderr.InvalidArgument("validate needs at least one file")
	}

	invalid := 0
	for _, path := range args {
		if _, err := readCharacter(cat, path); err != nil {
			invalid++
			fmt.Printf("%s: invalid\n", path)
			for _, v := range dnderr.Violations(err) {
				fmt.Printf("  %s\n", v)
			}
			if !dnderr.IsSchemaViolation(err) {
				fmt.Printf("  %v\n", err)
			}
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if invalid > 0 {
		return dnderr.Validationf("%d of %d file(s) invalid", invalid, len(args))
	}
	return nil
}

func migrateFile(cat *catalog.Catalog, _ []sheet.Option, args []string) error {
	path, err := oneFile("migrate", args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := wizard.MigrateDocument(cat, data)
	if err != nil {
		return err
	}
	return printJSON(doc)
}

func stepsFile(cat *catalog.Catalog, _ []sheet.Option, args []string) error {
	path, err := oneFile("steps", args)
	if err != nil {
		return err
	}
	c, err := readCharacter(cat, path)
	if err != nil {
		return err
	}
	return printJSON(sequencer.Steps(c))
}

func budgetsFile(cat *catalog.Catalog, _ []sheet.Option, args []string) error {
	path, err := oneFile("budgets", args)
	if err != nil {
		return err
	}
	c, err := readCharacter(cat, path)
	if err != nil {
		return err
	}
	if err := c.CheckBudgets(cat); err != nil {
		return err
	}
	spent := c.SpentPoints()
	return printJSON(spent)
}

func exportFile(cat *catalog.Catalog, opts []sheet.Option, args []string) error {
	path, err := oneFile("export", args)
	if err != nil {
		return err
	}
	c, err := readCharacter(cat, path)
	if err != nil {
		return err
	}

	form := sheet.NewMemoryForm()
	report, err := sheet.Export(c, form, opts...)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"fields": form.Values(),
		"font":   form.Font(),
		"report": report,
	})
}
