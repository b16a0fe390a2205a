package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramID         = "id"
	queryParentID   = "parent_id"
	queryFolderID   = "folder_id"
	formFieldFile   = "file"
	formFieldParent = "parent_id"

	metaKeyName       = "name"
	metaKeyParentID   = "parent_id"
	metaKeyOutcome    = "outcome"
	metaKeyStorageKey = "storage_key"
	metaKeyOldName    = "old_name"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidMultipartForm    = "request must be multipart/form-data"
	msgOpenUploadFailed        = "failed to read uploaded file"
	msgEntryRenamed            = "entry renamed"
	msgEntryDeleted            = "entry deleted"
)
