package payload

// Schema fields mirror the host's processing API models. Extraction copies a
// field only when it appears here, exists on the run snapshot, and is not
// excluded below, making the contract static instead of probing attributes
// at runtime.

var sharedSchemaFields = []string{
	"prompt",
	"negative_prompt",
	"styles",
	"seed",
	"subseed",
	"subseed_strength",
	"seed_resize_from_h",
	"seed_resize_from_w",
	"sampler_name",
	"sampler_index",
	"scheduler",
	"batch_size",
	"n_iter",
	"steps",
	"cfg_scale",
	"width",
	"height",
	"restore_faces",
	"tiling",
	"do_not_save_samples",
	"do_not_save_grid",
	"eta",
	"denoising_strength",
	"s_min_uncond",
	"s_churn",
	"s_tmax",
	"s_tmin",
	"s_noise",
	"override_settings",
	"override_settings_restore_afterwards",
	"refiner_checkpoint",
	"refiner_switch_at",
	"disable_extra_networks",
	"comments",
	"send_images",
	"save_images",
}

var txt2imgSchemaFields = append([]string{
	"enable_hr",
	"firstphase_width",
	"firstphase_height",
	"hr_scale",
	"hr_upscaler",
	"hr_second_pass_steps",
	"hr_resize_x",
	"hr_resize_y",
	"hr_checkpoint_name",
	"hr_sampler_name",
	"hr_scheduler",
	"hr_prompt",
	"hr_negative_prompt",
}, sharedSchemaFields...)

var img2imgSchemaFields = append([]string{
	"init_images",
	"resize_mode",
	"image_cfg_scale",
	"mask",
	"mask_blur",
	"mask_blur_x",
	"mask_blur_y",
	"mask_round",
	"inpainting_fill",
	"inpaint_full_res",
	"inpaint_full_res_padding",
	"inpainting_mask_invert",
	"initial_noise_multiplier",
	"latent_mask",
	"include_init_images",
}, sharedSchemaFields...)

// excludedSchemaFields are schema entries never copied into a payload:
// internal two-stage dimensions, the legacy sampler index, and the flags
// that merely control what the host's own API echoes back.
var excludedSchemaFields = map[string]struct{}{
	"firstphase_width":  {},
	"firstphase_height": {},
	"sampler_index":     {},
	"send_images":       {},
	"save_images":       {},
}

// SchemaFields returns the ordered schema field names for a mode.
func SchemaFields(mode Mode) []string {
	if mode == ModeImg2Img {
		return img2imgSchemaFields
	}
	return txt2imgSchemaFields
}
