package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

// Formatos de exportação suportados.
const (
	FormatoCSV  = "csv"
	FormatoXLSX = "xlsx"
)

// Tabela é a entrada dos exportadores: cabeçalho mais linhas com células tipadas
// (string, int, bool, decimal.Decimal).
type Tabela struct {
	Nome       string
	Cabecalhos []string
	Linhas     [][]interface{}
}

// ProdutosTabela monta a tabela da lista de produtos na ordem recebida.
func ProdutosTabela(produtos []models.Produto) Tabela {
	t := Tabela{
		Nome:       "Produtos",
		Cabecalhos: []string{"ID", "Modelo", "Marca", "Ano", "Acessórios", "Foto", "Preço R$", "Destaque"},
		Linhas:     make([][]interface{}, 0, len(produtos)),
	}
	for _, p := range produtos {
		t.Linhas = append(t.Linhas, []interface{}{
			p.ID, p.Modelo, p.NomeMarca(), p.Ano, p.Acessorios, p.Foto, p.Preco, p.Destaque,
		})
	}
	return t
}

// WriteCSV escreve a tabela em CSV separado por ';'.
func WriteCSV(w io.Writer, t Tabela) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(t.Cabecalhos); err != nil {
		return appErrors.WrapErrorf(appErrors.ErrExport, "falha ao escrever cabeçalhos CSV: %v", err)
	}
	for _, linha := range t.Linhas {
		registro := make([]string, len(linha))
		for i, cel := range linha {
			registro[i] = celulaTexto(cel)
		}
		if err := writer.Write(registro); err != nil {
			return appErrors.WrapErrorf(appErrors.ErrExport, "falha ao escrever linha CSV: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return appErrors.WrapErrorf(appErrors.ErrExport, "falha ao dar flush no writer CSV: %v", err)
	}
	return nil
}

// WriteXLSX escreve a tabela numa planilha Excel com cabeçalho estilizado.
func WriteXLSX(w io.Writer, t Tabela) error {
	xlsx := excelize.NewFile()
	defer func() {
		if err := xlsx.Close(); err != nil {
			appLogger.Errorf("Erro ao fechar arquivo XLSX: %v", err)
		}
	}()

	sheet := t.Nome
	if sheet == "" {
		sheet = "Dados"
	}
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return appErrors.WrapErrorf(appErrors.ErrExport, "falha ao nomear planilha '%s': %v", sheet, err)
	}

	headerStyle, _ := xlsx.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#A16207"}, Pattern: 1},
		Font:      &excelize.Font{Color: "FFFFFF", Bold: true, Size: 11, Family: "Segoe UI"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	precoStyle, _ := xlsx.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	for colIdx, header := range t.Cabecalhos {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		xlsx.SetCellValue(sheet, cell, header)
		xlsx.SetCellStyle(sheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(colIdx + 1)
		xlsx.SetColWidth(sheet, colName, colName, 18)
	}

	for rowIdx, linha := range t.Linhas {
		for colIdx, cel := range linha {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := cel.(type) {
			case decimal.Decimal:
				xlsx.SetCellValue(sheet, cell, v.InexactFloat64())
				xlsx.SetCellStyle(sheet, cell, cell, precoStyle)
			case bool:
				xlsx.SetCellValue(sheet, cell, simNao(v))
			default:
				xlsx.SetCellValue(sheet, cell, v)
			}
		}
	}

	if err := xlsx.Write(w); err != nil {
		return appErrors.WrapErrorf(appErrors.ErrExport, "falha ao gravar XLSX: %v", err)
	}
	return nil
}

// Write despacha para o formato pedido.
func Write(w io.Writer, t Tabela, formato string) error {
	switch strings.ToLower(formato) {
	case FormatoCSV:
		return WriteCSV(w, t)
	case FormatoXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("%w: formato de exportação desconhecido '%s'", appErrors.ErrInvalidInput, formato)
	}
}

// ExportToFile grava a tabela em disco. O formato sai da extensão (padrão xlsx);
// caminhos relativos ficam dentro de exportDir. Um arquivo existente vira backup.
func ExportToFile(t Tabela, outputPath, exportDir string) (string, error) {
	formato := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	if formato != FormatoCSV {
		formato = FormatoXLSX
	}
	finalPath := resolveOutputPath(outputPath, exportDir, "."+formato)

	if fileExists(finalPath) {
		if err := createBackup(finalPath); err != nil {
			return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar backup de '%s': %v", finalPath, err)
		}
	}

	file, err := os.Create(finalPath)
	if err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar arquivo '%s': %v", finalPath, err)
	}
	defer file.Close()

	if err := Write(file, t, formato); err != nil {
		return "", err
	}
	appLogger.Infof("Dados exportados para %s: %s (%d linhas)", strings.ToUpper(formato), finalPath, len(t.Linhas))
	return finalPath, nil
}

func celulaTexto(cel interface{}) string {
	switch v := cel.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case bool:
		return simNao(v)
	case decimal.Decimal:
		return v.StringFixed(2)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func simNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// --- Funções Utilitárias Internas ---
func resolveOutputPath(path string, defaultDir string, defaultExt string) string {
	p := filepath.Clean(path)
	if !filepath.IsAbs(p) {
		absDefaultDir, _ := filepath.Abs(defaultDir)
		p = filepath.Join(absDefaultDir, p)
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		appLogger.Warnf("Não foi possível criar diretório de exportação '%s': %v. Usando diretório atual.", dir, err)
		p = filepath.Base(p)
	}

	if filepath.Ext(p) == "" {
		p += defaultExt
	}
	return p
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func createBackup(path string) error {
	timestamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	backupPath := fmt.Sprintf("%s_backup_%s%s", base, timestamp, ext)

	err := os.Rename(path, backupPath)
	if err == nil {
		appLogger.Infof("Backup criado: %s", backupPath)
	}
	return err
}
