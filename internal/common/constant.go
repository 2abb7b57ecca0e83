package common

// AuthorizationHeaderName carries the admin access token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// DefaultMirrorFolder is the remote folder that receives generated documents.
const DefaultMirrorFolder = "Banco_de_Ideias"
