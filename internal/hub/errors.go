package hub

import "errors"

// ErrNotConnected é retornado por toda operação invocada sem conexão ativa
// com o servidor. A mensagem literal é compartilhada com o restante do
// sistema e não deve ser alterada.
var ErrNotConnected = errors.New("未连接到服务器")

// ErrInvokeTimeout é retornado quando o servidor não responde uma invocação
// dentro do prazo configurado
var ErrInvokeTimeout = errors.New("tempo de resposta do servidor esgotado")
