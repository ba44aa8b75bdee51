package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/cultura-alerta/go-editais/internal/console/service"
	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
	neverScraped   = "Nunca"
	noDeadline     = "Sem prazo"
)

// DeadlineLabel descreve o prazo como na listagem: vencido, dias restantes ou sem prazo.
func DeadlineLabel(notice models.Notice, now time.Time) string {
	if notice.DataVencimento == nil {
		return noDeadline
	}

	days := service.DaysUntil(*notice.DataVencimento, now)

	switch service.ClassifyDeadline(notice, now) {
	case models.DeadlineExpired:
		return "Vencido"
	case models.DeadlineUrgent:
		if days == 0 {
			return "Vence hoje"
		}

		if days == 1 {
			return "Urgente: 1 dia"
		}

		return fmt.Sprintf("Urgente: %d dias", days)
	default:
		return fmt.Sprintf("%d dias", days)
	}
}

func formatDeadline(notice models.Notice) string {
	if notice.DataVencimento == nil {
		return "-"
	}

	return notice.DataVencimento.Format(dateLayout)
}

func formatLastScrape(source models.Source) string {
	if source.LastScrape == nil {
		return neverScraped
	}

	return source.LastScrape.Local().Format(dateTimeLayout)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func RenderNotices(w io.Writer, notices []models.Notice, now time.Time) error {
	if len(notices) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum edital encontrado.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Nome", "Categoria", "Fonte", "Vencimento", "Prazo")

	for _, notice := range notices {
		err := table.Append([]string{
			strconv.FormatInt(notice.ID, 10),
			notice.Nome,
			valueOrDash(notice.CategoriaValue()),
			notice.Fonte,
			formatDeadline(notice),
			DeadlineLabel(notice, now),
		})
		if err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d edital(is)\n", len(notices))

	return err
}

func RenderNotice(w io.Writer, notice models.Notice, now time.Time) error {
	lines := []string{
		"Edital #" + strconv.FormatInt(notice.ID, 10),
		"Nome:       " + notice.Nome,
		"Categoria:  " + valueOrDash(notice.CategoriaValue()),
		"Fonte:      " + notice.Fonte,
		"Publicação: " + notice.DataPublicacao.Format(dateLayout),
		"Vencimento: " + formatDeadline(notice) + " (" + DeadlineLabel(notice, now) + ")",
		"Link:       " + notice.Link,
	}

	if descricao := notice.DescricaoValue(); descricao != "" {
		lines = append(lines, "", descricao)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))

	return err
}

func RenderSources(w io.Writer, sources []models.Source) error {
	if len(sources) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma fonte cadastrada.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Nome", "Tipo", "Ativa", "URL", "Última coleta")

	for _, source := range sources {
		active := "não"
		if source.Active {
			active = "sim"
		}

		err := table.Append([]string{
			strconv.FormatInt(source.ID, 10),
			source.Name,
			strings.ToUpper(string(source.Type)),
			active,
			source.URL,
			formatLastScrape(source),
		})
		if err != nil {
			return err
		}
	}

	return table.Render()
}

func RenderCategories(w io.Writer, categories []string) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma categoria disponível.")
		return err
	}

	for _, category := range categories {
		if _, err := fmt.Fprintln(w, "- "+category); err != nil {
			return err
		}
	}

	return nil
}

// RenderPreview mostra no máximo MaxPreviewItems itens de um feed rss.
func RenderPreview(w io.Writer, snapshot service.PreviewSnapshot) error {
	if snapshot.State == service.PreviewFailed {
		_, err := fmt.Fprintln(w, "Erro: "+snapshot.ErrorMessage)
		return err
	}

	if snapshot.Preview == nil {
		_, err := fmt.Fprintln(w, "Sem preview.")
		return err
	}

	preview := snapshot.Preview

	lines := []string{
		"Título:    " + valueOrDash(preview.Title),
		"Descrição: " + valueOrDash(preview.Description),
	}

	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return err
	}

	if preview.Type == models.SourceTypeWeb {
		if preview.PreviewText == "" {
			return nil
		}

		_, err := fmt.Fprintln(w, "\n"+preview.PreviewText)

		return err
	}

	items := preview.VisibleItems()
	if len(items) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Título", "Publicado", "Link")

	for _, item := range items {
		if err := table.Append([]string{item.Title, valueOrDash(item.Published), item.Link}); err != nil {
			return err
		}
	}

	return table.Render()
}

func RenderBanner(w io.Writer, banner service.StatusBanner) error {
	prefix := "OK"
	if banner.Kind == service.StatusError {
		prefix = "ERRO"
	}

	_, err := fmt.Fprintf(w, "[%s] %s\n", prefix, banner.Message)

	return err
}
