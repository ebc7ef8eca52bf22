package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK             ErrorCode = "OK"
	CodeUnknown        ErrorCode = "COMMON_000"
	CodeInternal       ErrorCode = "COMMON_001"
	CodeInvalidParam   ErrorCode = "COMMON_002"
	CodeNotFound       ErrorCode = "COMMON_003"
	CodeValidation     ErrorCode = "COMMON_004"
	CodeSerialization  ErrorCode = "COMMON_005"
	CodeCacheError     ErrorCode = "COMMON_006"
	CodeExternalTool   ErrorCode = "COMMON_007"
	CodeNotImplemented ErrorCode = "COMMON_008"
	CodeDeprecated     ErrorCode = "COMMON_009"
	CodeUnavailable    ErrorCode = "COMMON_010"
)

// Molecule error codes.
const (
	CodeMoleculeInvalidSMILES ErrorCode = "MOL_001"
	CodeMoleculeInvalidSDF    ErrorCode = "MOL_002"
	CodeMoleculeEmptySet      ErrorCode = "MOL_003"
	CodeMoleculeNo3D          ErrorCode = "MOL_004"
)

// Feature generation error codes.
const (
	CodeDescriptorSetUnknown      ErrorCode = "FEAT_001"
	CodeDescriptorFailed          ErrorCode = "FEAT_002"
	CodeFingerprintUnknown        ErrorCode = "FEAT_003"
	CodeFingerprintNotImplemented ErrorCode = "FEAT_004"
	CodeFingerprintFailed         ErrorCode = "FEAT_005"
	CodeMatrixShapeMismatch       ErrorCode = "FEAT_006"
	CodePadelRunFailed            ErrorCode = "FEAT_007"
)
