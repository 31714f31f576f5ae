package course

import (
	"fmt"

	"coursearchitect/internal/models"
)

// standardUnitItems builds the fixed internal structure every teaching unit
// shares: concept map, objectives, initial quiz, lesson, forum, graded
// activities, practical workshop, learning journal and final self-assessment.
func standardUnitItems(unitID, unitTitle, unitContent, workshopTopic string) []models.CourseItem {
	return []models.CourseItem{
		{
			ID:            unitID + "-map",
			Title:         "Mapa conceptual de la unitat",
			Description:   "Visió panoràmica dels conceptes clau.",
			Type:          models.ItemTypeFile,
			PromptContext: fmt.Sprintf("Crea un esquema textual per a un mapa conceptual sobre: %s. Continguts: %s", unitTitle, unitContent),
		},
		{
			ID:            unitID + "-objectives",
			Title:         "Objectius d'Aprenentatge",
			Description:   "Resum dels punts clau a assolir.",
			Type:          models.ItemTypePage,
			PromptContext: fmt.Sprintf("Resumeix en 3 punts clau què s'espera que l'alumne aprengui en aquesta unitat: %s. Continguts: %s.", unitTitle, unitContent),
		},
		{
			ID:            unitID + "-quiz-init",
			Title:         "Qüestionari: Què saps?",
			Description:   "Avaluació inicial per determinar el nivell previ.",
			Type:          models.ItemTypeQuiz,
			PromptContext: fmt.Sprintf("Genera 5 preguntes tipus test per avaluar coneixements previs sobre: %s.", unitTitle),
		},
		{
			ID:            unitID + "-lesson",
			Title:         "Lliçó: Continguts Teòrics",
			Description:   "Desenvolupament teòric: " + unitContent,
			Type:          models.ItemTypePage,
			PromptContext: fmt.Sprintf("Escriu una introducció didàctica i estructurada sobre: %s. Inclou exemples de cultura plàstica o cinema.", unitContent),
		},
		{
			ID:            unitID + "-forum",
			Title:         "Fòrum de Debat: " + unitTitle,
			Description:   "Espai de seguiment per debatre idees i resoldre dubtes sobre la teoria.",
			Type:          models.ItemTypeForum,
			PromptContext: fmt.Sprintf("Proposa un tema de debat provocador relacionat amb %q i redacta el missatge inicial del professor per animar la participació dels alumnes.", unitContent),
		},
		{
			ID:            unitID + "-activities",
			Title:         "Activitats (Graus 1, 2 i 3)",
			Description:   "Exercicis dividits per nivells de dificultat (Directe, Inferència, Recerca).",
			Type:          models.ItemTypeAssignment,
			PromptContext: fmt.Sprintf("Proposa 3 activitats per a estudiants sobre %s: una de resposta directa, una de deducció/relació i una de recerca externa.", unitTitle),
		},
		{
			ID:            unitID + "-workshop",
			Title:         "Taller Pràctic: " + workshopTopic,
			Description:   "Espai per al lliurament del projecte pràctic final.",
			Type:          models.ItemTypeAssignment,
			PromptContext: fmt.Sprintf("Redacta les instruccions pas a pas per al taller: %s. Inclou criteris d'avaluació.", workshopTopic),
		},
		{
			ID:            unitID + "-reflection",
			Title:         "Seguiment: Diari d'Aprenentatge",
			Description:   "Reflexió personal sobre el procés de creació del taller.",
			Type:          models.ItemTypeAssignment,
			PromptContext: fmt.Sprintf("Crea una fitxa de seguiment amb 4 preguntes reflexives perquè l'alumne analitzi les dificultats trobades i els aprenentatges adquirits durant el taller: %q.", workshopTopic),
		},
		{
			ID:            unitID + "-quiz-final",
			Title:         "Autoavaluació",
			Description:   "Comprova el teu progrés.",
			Type:          models.ItemTypeQuiz,
			PromptContext: fmt.Sprintf("Genera 10 preguntes d'elecció múltiple per avaluar els continguts: %s.", unitContent),
		},
	}
}

// Data is the static curriculum. It is defined entirely here and never
// created or destroyed at runtime.
var Data = models.CourseStructure{
	General: models.CourseUnit{
		ID:          "general",
		Title:       "Secció General del Curs",
		Description: "Recursos transversals i comunicació.",
		Items: []models.CourseItem{
			{
				ID:            "gen-forum",
				Title:         "Fòrum d'avisos i notícies",
				Description:   "Per a comunicacions del professor.",
				Type:          models.ItemTypeForum,
				PromptContext: "Redacta un missatge de benvinguda al curs de Cultura Audiovisual per al fòrum d'avisos.",
			},
			{
				ID:            "gen-guide",
				Title:         "Guia docent",
				Description:   "Presentació de la matèria i objectius.",
				Type:          models.ItemTypeFile,
				PromptContext: "Crea un resum dels objectius d'aprenentatge per a un curs de Cultura Audiovisual i Multimèdia.",
			},
			{
				ID:            "gen-glossary",
				Title:         "Glossari de termes",
				Description:   "Conceptes clau com iconicitat, diafragma, story board.",
				Type:          models.ItemTypeGlossary,
				PromptContext: "Defineix breument els termes: Iconicitat, Diafragma, Story board, Enquadrament, Píxel.",
			},
			{
				ID:            "gen-biblio",
				Title:         "Bibliografia i Recursos",
				Description:   "Recull de les fonts de consulta generals.",
				Type:          models.ItemTypeURL,
				PromptContext: "Llista 5 recursos web o llibres essencials per aprendre sobre llenguatge audiovisual i cinema.",
			},
		},
	},
	Units: []models.CourseUnit{
		{
			ID:          "u1",
			Title:       "Unitat 1: Imatge i significat",
			Description: "Evolució i funció de la imatge.",
			Items: standardUnitItems("u1",
				"Imatge i significat",
				"Evolució de la imatge fins a l'era digital, funcions de la imatge i la construcció social de la realitat",
				"Construcció d'una càmera estenopeica"),
		},
		{
			ID:          "u2",
			Title:       "Unitat 2: La imatge fixa i els seus llenguatges",
			Description: "Codis visuals, fotografia i còmic.",
			Items: standardUnitItems("u2",
				"La imatge fixa",
				"Codis de la imatge, nivells d'iconicitat, el cartell, el còmic i la càmera fotogràfica",
				"Retoc digital d'imatges (Photoshop/GIMP)"),
		},
		{
			ID:          "u3",
			Title:       "Unitat 3: La imatge en moviment. El cinema",
			Description: "Cinema, animació i narrativa visual.",
			Items: standardUnitItems("u3",
				"La imatge en moviment",
				"Fonaments del cinema, el guió (literari i tècnic), l'story board i gèneres d'animació",
				"Gravació i muntatge d'una seqüència d'animació"),
		},
		{
			ID:          "u4",
			Title:       "Unitat 4: Integració de so i imatge",
			Description: "Producció multimèdia i àudio.",
			Items: standardUnitItems("u4",
				"Integració so i imatge",
				"Funció expressiva del so, sistemes de registre digital, formats (MP3, WAV, AVI) i edició",
				"Producció d'un joc multimèdia interactiu"),
		},
		{
			ID:          "u5",
			Title:       "Unitat 5: Els mitjans de comunicació",
			Description: "TV, ràdio i internet.",
			Items: standardUnitItems("u5",
				"Els mitjans de comunicació",
				"Llenguatge televisiu, programació radiofònica i la democratització de la informació a Internet",
				"Simulació d'una tertúlia o magazin"),
		},
		{
			ID:          "u6",
			Title:       "Unitat 6: La publicitat",
			Description: "Publicitat, propaganda i màrqueting.",
			Items: standardUnitItems("u6",
				"La publicitat",
				"Diferència entre publicitat i propaganda, anàlisi de l'spot, publicitat social",
				"Elaboració d'un anunci publicitari"),
		},
		{
			ID:          "u7",
			Title:       "Unitat 7: Anàlisi de la imatge",
			Description: "Lectura crítica i valors estètics.",
			Items: standardUnitItems("u7",
				"Anàlisi de la imatge",
				"Lectura denotativa i connotativa, valors estètics i de significat, influència mediàtica",
				"Anàlisi de programari multimèdia"),
		},
	},
}
