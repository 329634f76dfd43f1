package registry

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Default returns the built-in endpoint list for the Monitora API. Body templates that
// identify a user are filled with testUserID.
func Default(testUserID string) []Endpoint {
	user := func(pairs ...string) ldvalue.Value {
		return object(append([]string{"idUser", testUserID}, pairs...)...)
	}
	empty := object()

	return []Endpoint{
		// Planos
		{Name: "Listar Planos", Method: http.MethodPost, Path: "/monitora/listar_planos", Body: empty, Category: "Planos"},
		{Name: "Listar Plano do Usuário", Method: http.MethodPost, Path: "/monitora/listar_plano_user", Body: user(), Category: "Planos"},
		{
			Name:     "Inserir Plano Usuário",
			Method:   http.MethodPost,
			Path:     "/monitora/inser_plano_user",
			Body:     user("idPlano", "1", "metodoPagamento", "test"),
			Category: "Planos",
			SkipTest: true,
		},
		{Name: "Alterar Plano", Method: http.MethodPost, Path: "/monitora/alterar_plano", Body: user("plano", "1"), Category: "Planos", SkipTest: true},
		{Name: "Remover Plano Usuário", Method: http.MethodPost, Path: "/monitora/remover_plano_user", Body: user(), Category: "Planos", SkipTest: true},
		{
			Name:     "Listar Descontos do Plano",
			Method:   http.MethodPost,
			Path:     "/monitora/listar_descontos_plano_user",
			Body:     object("id_plano", "1"),
			Category: "Planos",
		},
		{Name: "Usar Cupom", Method: http.MethodPost, Path: "/monitora/usarCupom", Body: user("codigo", "TEST"), Category: "Planos", SkipTest: true},

		// Busca
		{Name: "Buscar Negativados por CPF/CNPJ", Method: http.MethodPost, Path: "/monitora/searchNegativados/12345678901", Body: empty, Category: "Busca"},
		{Name: "Buscar Dívidas", Method: http.MethodPost, Path: "/monitora/searchDividas", Body: empty, Category: "Busca"},
		{
			Name:     "Consultar Empresas por CNPJ Credor",
			Method:   http.MethodPost,
			Path:     "/monitora/consult_empresas_cnpjCredor",
			Body:     object("cnpj_credor", "12345678000190"),
			Category: "Busca",
		},
		{Name: "Get Dívida", Method: http.MethodPost, Path: "/monitora/getDivida", Body: object("id", "1"), Category: "Busca"},
		{Name: "Get Empresa Dívida", Method: http.MethodPost, Path: "/monitora/getEmpresaDivida", Body: object("id", "1"), Category: "Busca"},

		// Usuário
		{Name: "Editar Usuário", Method: http.MethodPost, Path: "/monitora/editar_usuarios", Body: user(), Category: "Usuário", SkipTest: true},
		{Name: "Endereço Usuário", Method: http.MethodPost, Path: "/monitora/endereco_usuarios", Body: user(), Category: "Usuário"},
		{Name: "Consultar Endereço Usuário", Method: http.MethodPost, Path: "/monitora/consultar_usuario_endereco", Body: user(), Category: "Usuário"},
		{Name: "Editar Endereço Cobrança", Method: http.MethodPost, Path: "/monitora/editar_endereco_cobranca", Body: user(), Category: "Usuário", SkipTest: true},

		// Notificações
		{Name: "Load Notificações", Method: http.MethodPost, Path: "/monitora/load_notificacoes_usuarios", Body: user(), Category: "Notificações"},
		{Name: "Notificações Não Lidas", Method: http.MethodPost, Path: "/monitora/naolidas_notificacoes_usuarios", Body: user(), Category: "Notificações"},
		{
			Name:     "Registrar Visualização Notificação",
			Method:   http.MethodPost,
			Path:     "/monitora/registrar_visualizacao_notificacoes",
			Body:     user("idNotificacao", "1"),
			Category: "Notificações",
			SkipTest: true,
		},

		// Pagamentos
		{Name: "Gravar Pagamento Loja", Method: http.MethodPost, Path: "/monitora/gravarpagamentoloja/test", Body: user("idPlano", "1"), Category: "Pagamentos", SkipTest: true},
		{Name: "Cadastrar Cartão", Method: http.MethodPost, Path: "/monitora/cadastrarCartao", Body: user(), Category: "Pagamentos", SkipTest: true},
		{Name: "Buscar Cartão", Method: http.MethodPost, Path: "/monitora/buscarCartao", Body: user(), Category: "Pagamentos"},

		// Negociações
		{Name: "Negociações", Method: http.MethodPost, Path: "/monitora/negociacoes", Body: empty, Category: "Negociações"},
		{Name: "Termos Negociação", Method: http.MethodPost, Path: "/monitora/termos_negociacao", Body: object("id", "1"), Category: "Negociações"},

		// Chat
		{Name: "Load Chat", Method: http.MethodPost, Path: "/monitora/load_chat_monitora", Body: user(), Category: "Chat"},
		{Name: "Monitoramento", Method: http.MethodPost, Path: "/monitora/monitoramento", Body: empty, Category: "Monitoramento"},
	}
}

// object builds a JSON object from alternating key/value strings.
func object(pairs ...string) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for i := 0; i+1 < len(pairs); i += 2 {
		b.SetString(pairs[i], pairs[i+1])
	}
	return b.Build()
}
