package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gestor-tarefas/database"
	"gestor-tarefas/firebase"
	"gestor-tarefas/utilities"
)

type SocialLoginInput struct {
	IDToken string `json:"idToken"`
}

// SocialLoginResponse define a estrutura da resposta de sucesso
type SocialLoginResponse struct {
	Message     string `json:"message"`
	FirebaseUID string `json:"firebaseUid"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// FinalizeFirebaseLoginHandler processa um ID Token do Firebase para verificar
// o usuário e sincronizá-lo com a tabela users (que guarda o papel).
func FinalizeFirebaseLoginHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogInfo("Recebida requisição para finalizar login com ID Token do Firebase.")

	var input SocialLoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar corpo da requisição para finalizar login Firebase")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(input.IDToken) == "" {
		utilities.LogError(nil, "ID Token não fornecido no corpo da requisição")
		http.Error(w, "ID Token é obrigatório", http.StatusBadRequest)
		return
	}

	verifiedToken, err := firebase.VerifyUserToken(input.IDToken)
	if err != nil {
		utilities.LogError(err, "Falha ao verificar ID Token do Firebase")
		http.Error(w, "Token inválido ou falha na verificação", http.StatusUnauthorized)
		return
	}
	utilities.LogInfo("ID Token verificado com sucesso para Firebase UID: %s", verifiedToken.UID)

	actor, err := firebase.CheckOrCreateUserInPostgres(db, verifiedToken)
	if err != nil {
		utilities.LogError(err, "Erro ao sincronizar usuário com banco de dados local")
		http.Error(w, "Erro interno do servidor ao processar usuário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SocialLoginResponse{
		Message:     "Login finalizado com sucesso",
		FirebaseUID: actor.UID,
		DisplayName: actor.DisplayName,
		Role:        actor.Role,
	})
}

// UserHandler devolve os dados do usuário autenticado: GET /user/info.
func UserHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := r.Context().Value(userUIDKey).(string)
	if !ok || uid == "" {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	user, err := database.GetUserInfo(db, uid)
	if err != nil {
		if err == database.ErrUserNotFound {
			http.Error(w, "Usuário não encontrado", http.StatusNotFound)
		} else {
			utilities.LogError(err, "UserHandler: Erro ao buscar usuário")
			http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
