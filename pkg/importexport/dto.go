package importexport

import "github.com/lasantosr/intelli-shell/pkg/model"

// CommandDTO is the JSON wire shape used by the HTTP source adapter, both
// for import (request body) and export (response body).
type CommandDTO struct {
	ID          string `json:"id,omitempty"`
	Alias       string `json:"alias,omitempty"`
	Cmd         string `json:"cmd"`
	Description string `json:"description,omitempty"`
}

// ToCommand builds a user/import Command out of a decoded DTO.
func (d CommandDTO) ToCommand(category model.Category, source model.Source) model.Command {
	return model.Command{
		ID:          model.NewID(),
		Category:    category,
		Source:      source,
		Alias:       d.Alias,
		Cmd:         model.StripNewlines(d.Cmd),
		Description: d.Description,
	}
}

// CommandToDTO projects a stored Command into its wire representation.
func CommandToDTO(c model.Command) CommandDTO {
	return CommandDTO{ID: c.ID.String(), Alias: c.Alias, Cmd: c.Cmd, Description: c.Description}
}
