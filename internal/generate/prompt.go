package generate

import (
	"fmt"
	"strings"

	"coursearchitect/internal/models"
)

// systemInstruction fixes the register of all generated course content.
const systemInstruction = `Ets un expert en pedagogia i disseny instruccional per a Moodle, especialitzat en Cultura Audiovisual.
El teu objectiu és generar contingut educatiu d'alta qualitat, estructurat i llest per ser utilitzat en un curs.

ESTIL I TO:
- Professional, motivador i clar.
- Adapta el llenguatge a estudiants de secundària/batxillerat.
- Utilitza format Markdown (negretes, llistes, títols) per millorar la llegibilitat.`

// Request carries everything needed to build one generation prompt.
type Request struct {
	ItemID             string
	ItemTitle          string
	ItemType           models.ItemType
	BaseContext        string
	CustomInstructions string
	GlobalContext      string
}

// BuildPrompt assembles the user prompt for one course item. When global
// reference documentation is present it becomes the primary source and the
// item's own description is demoted to a fallback; otherwise the description
// is the sole source.
func BuildPrompt(req Request) string {
	contentSources := fmt.Sprintf("CONTEXT DEL TEMARI (BASE): %q", req.BaseContext)

	if strings.TrimSpace(req.GlobalContext) != "" {
		contentSources = fmt.Sprintf(`!!! IMPORTANT: HAS DE BASAR-TE PRIORITÀRIAMENT EN LA SEGÜENT DOCUMENTACIÓ PROPORCIONADA PER L'USUARI !!!

--- INICI DOCUMENTACIÓ/BIBLIOGRAFIA EXTRA ---
%s
--- FI DOCUMENTACIÓ/BIBLIOGRAFIA EXTRA ---

CONTEXT SECUNDARI (Utilitzar només si falta informació a la documentació anterior):
%q`, req.GlobalContext, req.BaseContext)
	}

	instructions := req.CustomInstructions
	if strings.TrimSpace(instructions) == "" {
		instructions = "Cap instrucció addicional."
	}

	return fmt.Sprintf(`TASCA: Generar el contingut complet per al recurs del curs titulat: %q

%s

INSTRUCCIONS ESPECÍFIQUES DE L'USUARI:
%s

FORMAT DE SORTIDA REQUERIT:
%s`, req.ItemTitle, contentSources, instructions, outputShape(req.ItemType))
}

// outputShape returns the fixed output-format instruction for an item type.
func outputShape(t models.ItemType) string {
	switch t {
	case models.ItemTypeQuiz:
		return "És un Qüestionari: llista les preguntes numerades i indica clarament la resposta correcta de cadascuna."
	case models.ItemTypeAssignment:
		return "És una Tasca: defineix els Objectius, la Descripció de l'activitat, el Format de lliurament i els Criteris d'avaluació (rúbrica simple)."
	case models.ItemTypeForum:
		return "És un Fòrum: redacta el missatge inicial del professor per obrir el debat."
	case models.ItemTypeGlossary:
		return "És un Glossari: llista els termes amb la seva definició, un per línia, ordenats alfabèticament."
	case models.ItemTypePage:
		return "És una Pàgina/Lliçó: desenvolupa el contingut teòric amb introducció, punts clau i conclusió o exemples basats en la documentació."
	default:
		return `Si és un Qüestionari: llista les preguntes numerades i indica clarament la resposta correcta.
Si és una Tasca: defineix els Objectius, Descripció de l'activitat, Format de lliurament i Criteris d'avaluació (Rúbrica simple).
Si és un Fòrum: redacta el missatge inicial del professor per obrir el debat.
Si és una Pàgina/Lliçó: desenvolupa el contingut teòric amb introducció, punts clau i conclusió o exemples basats en la documentació.`
	}
}
