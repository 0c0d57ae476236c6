// Package recipeml converts recipes to and from RecipeML 0.5 documents.
package recipeml

import (
	"fmt"
	"strings"

	"github.com/Dan9191/mealmate/internal/models"
	"github.com/beevik/etree"
)

// ContentType is the media type of encoded documents
const ContentType = "application/xml; charset=utf-8"

// Encode renders a recipe as RecipeML. Ingredients and instructions are split one
// entry per non-empty line.
func Encode(recipe *models.Recipe) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("recipeml")
	root.CreateAttr("version", "0.5")
	rec := root.CreateElement("recipe")
	rec.CreateElement("head").CreateElement("title").SetText(recipe.Title)

	ings := rec.CreateElement("ingredients")
	for _, line := range lines(recipe.Ingredients) {
		ings.CreateElement("ing").CreateElement("item").SetText(line)
	}
	dirs := rec.CreateElement("directions")
	for _, line := range lines(recipe.Instructions) {
		dirs.CreateElement("step").SetText(line)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write RecipeML: %w", err)
	}
	return out, nil
}

// Decode parses the first recipe of a RecipeML document. The result has no id or owner.
func Decode(raw []byte) (*models.Recipe, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	rec := doc.FindElement("//recipe")
	if rec == nil {
		return nil, fmt.Errorf("no recipe element found")
	}
	title := rec.FindElement("./head/title")
	if title == nil || strings.TrimSpace(title.Text()) == "" {
		return nil, fmt.Errorf("recipe title not found")
	}

	var ingredients []string
	for _, item := range rec.FindElements("./ingredients/ing/item") {
		if text := strings.TrimSpace(item.Text()); text != "" {
			ingredients = append(ingredients, text)
		}
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("recipe has no ingredients")
	}

	var steps []string
	for _, step := range rec.FindElements("./directions/step") {
		if text := strings.TrimSpace(step.Text()); text != "" {
			steps = append(steps, text)
		}
	}

	return &models.Recipe{
		Title:        strings.TrimSpace(title.Text()),
		Ingredients:  strings.Join(ingredients, "\n"),
		Instructions: strings.Join(steps, "\n"),
	}, nil
}

func lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
