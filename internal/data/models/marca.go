package models

// Marca é a marca de veículo. Dado de referência, somente leitura no painel.
type Marca struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// GetID implementa Identificavel.
func (m Marca) GetID() int { return m.ID }

// Identificavel é implementado por toda entidade que vive numa lista de tela.
type Identificavel interface {
	GetID() int
}
