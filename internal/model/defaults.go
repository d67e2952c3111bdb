package model

// DefaultRubricVersion identifies the seeded scorecard.
const DefaultRubricVersion = "Ficha v1.1.2025"

// DefaultRubric returns the production monitoring scorecard seeded on first
// run. Its weights sum to 97, not 100, so loading it surfaces the
// imbalance warning until an operator adjusts it.
func DefaultRubric() Rubric {
	return Rubric{
		{ID: "1.1", Category: "1. Abertura", Name: "1.1 Script e Personalização", Description: "Iniciou em até 5s, seguiu script e personalizou.", Weight: 3},
		{ID: "1.2", Category: "1. Abertura", Name: "1.2 Receptividade", Description: "Abertura positiva e perguntou como gostaria de ser chamado.", Weight: 2},
		{ID: "1.3", Category: "1. Abertura", Name: "1.3 Proatividade", Description: "Perguntou como ajudar antes de pedir dados.", Weight: 2},
		{ID: "1.4", Category: "1. Abertura", Name: "1.4 Segurança LGPD", Description: "Confirmação de dados conforme script de segurança.", Weight: 3},
		{ID: "1.5", Category: "1. Abertura", Name: "1.5 Sondagem Sistêmica", Description: "Verificou histórico para evitar repetição.", Weight: 4},

		{ID: "4.1", Category: "4. Diálogo", Name: "4.1 Empatia e Cordialidade", Description: "Demonstrou interesse genuíno, paciência e equilíbrio emocional durante o contato.", Weight: 7},
		{ID: "4.2", Category: "4. Diálogo", Name: "4.2 Personalização Contínua", Description: "Chamou o cliente pelo nome preferido durante o atendimento.", Weight: 3},
		{ID: "4.3", Category: "4. Diálogo", Name: "4.3 Concentração", Description: "Atenção ao relato sem pedir repetição desnecessária.", Weight: 4},
		{ID: "4.4", Category: "4. Diálogo", Name: "4.4 Norma Culta", Description: "Utilização correta da língua, sem gírias ou vícios de linguagem.", Weight: 3},

		{ID: "5.1", Category: "5. Conhecimento", Name: "5.1 Conhecimento Técnico", Description: "Demonstrou domínio pleno dos procedimentos e ferramentas.", Weight: 10},
		{ID: "5.2", Category: "5. Conhecimento", Name: "5.2 Resolutividade", Description: "Entregou a solução completa ou o próximo passo correto.", Weight: 10},

		{ID: "BONUS", Category: "Sistema", Name: "Bônus Operacional", Description: "Pontuação automática de performance.", Weight: 46},
	}
}

// DefaultZeroTolerance returns the seeded NCG rule set.
func DefaultZeroTolerance() []ZeroToleranceRule {
	return []ZeroToleranceRule{
		{ID: "ncg1", Name: "Desligamento Indevido", Description: "Cair a ligação propositalmente ou desligar sem motivo."},
		{ID: "ncg2", Name: "Conduta Inadequada", Description: "Falta de respeito, deboche ou agressividade."},
		{ID: "ncg3", Name: "Erro de Procedimento Crítico", Description: "Informação que gera risco de vida ou prejuízo financeiro grave."},
	}
}
