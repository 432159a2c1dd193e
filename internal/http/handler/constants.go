package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramID       = "id"
	paramWildcard = "*"

	queryParamPartition = "partition"
	queryParamParentID  = "parentId"
	queryParamPath      = "path"
	queryParamLimit     = "limit"

	formFieldFile = "file"
	formFieldPath = "path"
)

const (
	msgInvalidRequestBody      = "invalid request body"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgFolderIDRequired        = "folder id required"
	msgInvalidPartition        = "invalid partition"
	msgInvalidSection          = "invalid section"
	msgInvalidBulkAction       = "invalid bulk action"
	msgNoItemsSelected         = "no items selected"
	msgFileFieldRequired       = "file field required"
	msgFileTooLarge            = "file exceeds the maximum upload size"
	msgMediaFileNotFound       = "media file not found"
	msgMediaFileDeleted        = "File deleted successfully."
	msgMediaFileMoved          = "File moved successfully."
	msgMovePathsRequired       = "sourcePath and destinationPath required"
	msgBulkActionDone          = "bulk action completed"
	msgStateSaved              = "state saved"
	msgPreferencesSaved        = "preferences saved"
	msgInvalidTheme            = "invalid theme"
	msgInvalidViewMode         = "invalid view mode"
	msgInvalidLimit            = "invalid limit"
	msgInvalidNavigateAction   = "invalid navigate action"
	msgMaxDepthReached         = "maximum folder depth reached"
)
